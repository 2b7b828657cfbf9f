package handlers

import (
	"fmt"
	"net/http"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/metrics"
	"github.com/eventura-app/server/internal/web/middleware"
)

type TicketsHandler struct {
	Base
	tickets  *tickets.Service
	payments *payments.Service
	events   *events.Service
}

func NewTicketsHandler(base Base, ticketService *tickets.Service, paymentService *payments.Service, eventService *events.Service) *TicketsHandler {
	return &TicketsHandler{
		Base:     base,
		tickets:  ticketService,
		payments: paymentService,
		events:   eventService,
	}
}

// Purchase issues a ticket for the event in the path and redirects to it.
func (h *TicketsHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	actor, _ := middleware.ActorFrom(r)

	ticket, _, err := h.tickets.Purchase(r.Context(), eventID, actor)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	metrics.TicketsPurchased.Inc()
	http.Redirect(w, r, fmt.Sprintf("/my/tickets/%d", ticket.ID), http.StatusSeeOther)
}

func (h *TicketsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	listed, err := h.tickets.ListForUser(r.Context(), actor.ID, actor)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["tickets"] = listed
	h.Renderer.Render(w, http.StatusOK, "tickets/list", data)
}

func (h *TicketsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	actor, _ := middleware.ActorFrom(r)

	ticket, err := h.tickets.Get(r.Context(), id, actor)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	data := h.data(r)
	data["ticket"] = ticket
	if event, err := h.events.Get(r.Context(), ticket.EventID); err == nil {
		data["event"] = event
	}
	if payment, err := h.payments.ForTicket(r.Context(), ticket.ID); err == nil && payment != nil {
		data["payment"] = payment
	}
	h.Renderer.Render(w, http.StatusOK, "tickets/detail", data)
}

// Redeem marks a ticket used at the door.
func (h *TicketsHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	actor, _ := middleware.ActorFrom(r)

	ticket, err := h.tickets.Redeem(r.Context(), r.PostFormValue("ticket_number"), actor)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/my/tickets/%d", ticket.ID), http.StatusSeeOther)
}

// PaymentCallback is the gateway's settle webhook: transaction_id plus a
// success flag. It answers plain text, not a page.
func (h *TicketsHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	transactionID := r.PostFormValue("transaction_id")
	succeeded := r.PostFormValue("status") == "success"

	payment, err := h.payments.Settle(r.Context(), transactionID, succeeded)
	if err != nil {
		if faults.KindOf(err) == faults.KindNotFound {
			http.Error(w, "unknown transaction", http.StatusNotFound)
			return
		}
		http.Error(w, "settle failed", http.StatusConflict)
		return
	}
	metrics.PaymentsSettled.WithLabelValues(string(payment.Status)).Inc()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
