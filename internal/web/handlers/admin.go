package handlers

import (
	"context"
	"net/http"

	"github.com/eventura-app/server/internal/domain/contact"
	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/payments"
	"github.com/eventura-app/server/internal/metrics"
)

type AdminHandler struct {
	Base
	events   *events.Service
	payments *payments.Service
	contact  *contact.Service
}

func NewAdminHandler(base Base, eventService *events.Service, paymentService *payments.Service, contactService *contact.Service) *AdminHandler {
	return &AdminHandler{
		Base:     base,
		events:   eventService,
		payments: paymentService,
		contact:  contactService,
	}
}

// Dashboard shows pending events, revenue totals and the contact inbox.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	pending, err := h.events.ListByStatus(r.Context(), events.StatusPending)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	totals, err := h.payments.Totals(r.Context())
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	unread, err := h.contact.UnreadCount(r.Context())
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	data := h.data(r)
	data["pending"] = pending
	data["totals"] = totals
	if unread > 0 {
		data["unreadMessages"] = unread
	}
	h.Renderer.Render(w, http.StatusOK, "admin/dashboard", data)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.events.Approve)
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.events.Reject)
}

func (h *AdminHandler) decide(w http.ResponseWriter, r *http.Request, decide func(context.Context, int64) (*events.Event, error)) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	event, err := decide(r.Context(), id)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	metrics.EventDecisions.WithLabelValues(string(event.Status)).Inc()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	listed, err := h.contact.ListAll(r.Context())
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["messages"] = listed
	h.Renderer.Render(w, http.StatusOK, "admin/messages", data)
}

func (h *AdminHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	if err := h.contact.MarkRead(r.Context(), id); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/messages", http.StatusSeeOther)
}

// Refund moves a completed payment to REFUNDED.
func (h *AdminHandler) Refund(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.Refund(r.Context(), r.PathValue("transactionID"))
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	metrics.PaymentsSettled.WithLabelValues(string(payment.Status)).Inc()
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
