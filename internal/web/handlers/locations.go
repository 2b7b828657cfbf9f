package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/eventura-app/server/internal/domain/events"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/locations"
)

type LocationsHandler struct {
	Base
	locations *locations.Service
	events    *events.Service
}

func NewLocationsHandler(base Base, locationService *locations.Service, eventService *events.Service) *LocationsHandler {
	return &LocationsHandler{
		Base:      base,
		locations: locationService,
		events:    eventService,
	}
}

func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := locations.Filters{
		Name:    query.Get("name"),
		City:    query.Get("city"),
		Country: query.Get("country"),
	}
	if raw := query.Get("min_capacity"); raw != "" {
		if capacity, err := strconv.Atoi(raw); err == nil && capacity > 0 {
			filters.MinCapacity = capacity
		}
	}

	listed, err := h.locations.List(r.Context(), filters)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["locations"] = listed
	data["filterName"] = filters.Name
	data["filterCity"] = filters.City
	data["filterCountry"] = filters.Country
	if filters.MinCapacity > 0 {
		data["filterCapacity"] = filters.MinCapacity
	}
	h.Renderer.Render(w, http.StatusOK, "locations/list", data)
}

func (h *LocationsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	location, err := h.locations.Get(r.Context(), id)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}

	data := h.data(r)
	data["location"] = location

	// upcoming events at this venue
	upcoming, err := h.events.Upcoming(r.Context(), time.Now())
	if err == nil {
		here := make([]events.Event, 0)
		for _, event := range upcoming {
			if event.LocationID == location.ID {
				here = append(here, event)
			}
		}
		data["events"] = here
	}
	h.Renderer.Render(w, http.StatusOK, "locations/detail", data)
}

func (h *LocationsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := h.data(r)
	data["form"] = locations.CreateParams{}
	h.Renderer.Render(w, http.StatusOK, "locations/form", data)
}

func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	form := locations.CreateParams{
		Name:        r.PostFormValue("name"),
		Address:     r.PostFormValue("address"),
		City:        r.PostFormValue("city"),
		Country:     r.PostFormValue("country"),
		ZipCode:     r.PostFormValue("zip_code"),
		Description: r.PostFormValue("description"),
	}
	if raw := r.PostFormValue("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			h.renderLocationForm(w, r, form, "Capacity must be a non-negative number.")
			return
		}
		form.Capacity = capacity
	}

	location, err := h.locations.Create(r.Context(), form)
	if err != nil {
		h.renderLocationForm(w, r, form, err.Error())
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/locations/%d", location.ID), http.StatusSeeOther)
}

func (h *LocationsHandler) renderLocationForm(w http.ResponseWriter, r *http.Request, form locations.CreateParams, formError string) {
	data := h.data(r)
	data["form"] = form
	data["formError"] = formError
	h.Renderer.Render(w, http.StatusUnprocessableEntity, "locations/form", data)
}
