package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/locations"
	"github.com/eventura-app/server/internal/domain/tickets"
	"github.com/eventura-app/server/internal/metrics"
	"github.com/eventura-app/server/internal/web/middleware"
)

type EventsHandler struct {
	Base
	events    *events.Service
	locations *locations.Service
	tickets   *tickets.Service
}

func NewEventsHandler(base Base, eventService *events.Service, locationService *locations.Service, ticketService *tickets.Service) *EventsHandler {
	return &EventsHandler{
		Base:      base,
		events:    eventService,
		locations: locationService,
		tickets:   ticketService,
	}
}

// Home shows the landing page with upcoming events.
func (h *EventsHandler) Home(w http.ResponseWriter, r *http.Request) {
	upcoming, err := h.events.Upcoming(r.Context(), time.Now())
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["events"] = upcoming
	h.Renderer.Render(w, http.StatusOK, "home", data)
}

// List shows upcoming events, or past ones with ?when=past.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		listed []events.Event
		err    error
		title  = "Upcoming events"
	)
	if r.URL.Query().Get("when") == "past" {
		listed, err = h.events.Past(r.Context(), time.Now())
		title = "Past events"
	} else {
		listed, err = h.events.Upcoming(r.Context(), time.Now())
	}
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["title"] = title
	data["events"] = listed
	h.Renderer.Render(w, http.StatusOK, "events/list", data)
}

func (h *EventsHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	found, err := h.events.Search(r.Context(), keyword)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["title"] = "Search"
	data["keyword"] = keyword
	data["events"] = found
	h.Renderer.Render(w, http.StatusOK, "events/list", data)
}

// Calendar lists approved events in an inclusive date range, defaulting
// to the current month.
func (h *EventsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			start = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			end = parsed.Add(24*time.Hour - time.Second)
		}
	}

	listed, err := h.events.Calendar(r.Context(), start, end)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["events"] = listed
	data["from"] = start.Format("2006-01-02")
	data["to"] = end.Format("2006-01-02")
	h.Renderer.Render(w, http.StatusOK, "events/calendar", data)
}

func (h *EventsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	data := h.data(r)
	data["event"] = event

	if location, err := h.locations.Get(r.Context(), event.LocationID); err == nil {
		data["location"] = location
	}
	if event.AvailableTickets > 0 {
		sold, err := h.tickets.SoldCount(r.Context(), event.ID)
		if err == nil {
			left := int64(event.AvailableTickets) - sold
			if left < 0 {
				left = 0
			}
			data["ticketsLeft"] = left
		}
	}
	if actor, ok := middleware.ActorFrom(r); ok {
		data["canManage"] = actor.Admin || actor.ID == event.OrganizerID
	}
	h.Renderer.Render(w, http.StatusOK, "events/detail", data)
}

// Mine lists the logged-in user's own events, whatever their status.
func (h *EventsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	listed, err := h.events.ListByOrganizer(r.Context(), actor.ID)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["title"] = "My events"
	data["events"] = listed
	h.Renderer.Render(w, http.StatusOK, "events/list", data)
}

func (h *EventsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New event", "/events", events.UpdateParams{}, "")
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	form, err := parseEventForm(r)
	if err != nil {
		h.renderForm(w, r, "New event", "/events", form, err.Error())
		return
	}

	event, err := h.events.Create(r.Context(), events.CreateParams{
		Title:                form.Title,
		Description:          form.Description,
		EventDate:            form.EventDate,
		RegistrationDeadline: form.RegistrationDeadline,
		Paid:                 form.Paid,
		TicketPrice:          form.TicketPrice,
		AvailableTickets:     form.AvailableTickets,
		OrganizerID:          actor.ID,
		LocationID:           form.LocationID,
	})
	if err != nil {
		if faults.KindOf(err) != faults.KindInternal {
			h.Renderer.Error(w, r, err)
			return
		}
		h.renderForm(w, r, "New event", "/events", form, err.Error())
		return
	}
	metrics.EventsCreated.Inc()
	http.Redirect(w, r, fmt.Sprintf("/events/%d", event.ID), http.StatusSeeOther)
}

func (h *EventsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	form := events.UpdateParams{
		Title:                event.Title,
		Description:          event.Description,
		EventDate:            event.EventDate,
		RegistrationDeadline: event.RegistrationDeadline,
		Paid:                 event.Paid,
		TicketPrice:          event.TicketPrice,
		AvailableTickets:     event.AvailableTickets,
		LocationID:           event.LocationID,
	}
	h.renderForm(w, r, "Edit event", fmt.Sprintf("/events/%d", id), form, "")
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	actor, _ := middleware.ActorFrom(r)
	form, err := parseEventForm(r)
	if err != nil {
		h.renderForm(w, r, "Edit event", fmt.Sprintf("/events/%d", id), form, err.Error())
		return
	}

	if _, err := h.events.Update(r.Context(), id, form, actor); err != nil {
		if faults.KindOf(err) != faults.KindInternal {
			h.Renderer.Error(w, r, err)
			return
		}
		h.renderForm(w, r, "Edit event", fmt.Sprintf("/events/%d", id), form, err.Error())
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/events/%d", id), http.StatusSeeOther)
}

func (h *EventsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	actor, _ := middleware.ActorFrom(r)
	if _, err := h.events.Cancel(r.Context(), id, actor); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	metrics.EventDecisions.WithLabelValues(string(events.StatusCanceled)).Inc()
	http.Redirect(w, r, fmt.Sprintf("/events/%d", id), http.StatusSeeOther)
}

func (h *EventsHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, form events.UpdateParams, formError string) {
	available, err := h.locations.List(r.Context(), locations.Filters{})
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	data := h.data(r)
	data["title"] = title
	data["action"] = action
	data["form"] = form
	data["locations"] = available
	if formError != "" {
		data["formError"] = formError
	}
	if !form.EventDate.IsZero() {
		data["eventDate"] = form.EventDate.Format("2006-01-02T15:04")
	}
	if form.RegistrationDeadline != nil {
		data["deadline"] = form.RegistrationDeadline.Format("2006-01-02T15:04")
	}
	h.Renderer.Render(w, http.StatusOK, "events/form", data)
}

func parseEventForm(r *http.Request) (events.UpdateParams, error) {
	if err := r.ParseForm(); err != nil {
		return events.UpdateParams{}, fmt.Errorf("invalid form submission")
	}

	form := events.UpdateParams{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Paid:        r.PostFormValue("paid") != "",
	}

	eventDate, err := time.Parse("2006-01-02T15:04", r.PostFormValue("event_date"))
	if err != nil {
		return form, fmt.Errorf("event date is invalid")
	}
	form.EventDate = eventDate

	if raw := r.PostFormValue("registration_deadline"); raw != "" {
		deadline, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			return form, fmt.Errorf("registration deadline is invalid")
		}
		form.RegistrationDeadline = &deadline
	}

	if raw := r.PostFormValue("ticket_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			return form, fmt.Errorf("ticket price is invalid")
		}
		form.TicketPrice = price
	}
	if raw := r.PostFormValue("available_tickets"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return form, fmt.Errorf("available tickets is invalid")
		}
		form.AvailableTickets = count
	}

	locationID, err := strconv.ParseInt(r.PostFormValue("location_id"), 10, 64)
	if err != nil || locationID <= 0 {
		return form, fmt.Errorf("location is required")
	}
	form.LocationID = locationID

	return form, nil
}
