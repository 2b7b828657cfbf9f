package handlers

import (
	"net/http"

	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/web/middleware"
)

type NotificationsHandler struct {
	Base
}

func NewNotificationsHandler(base Base) *NotificationsHandler {
	return &NotificationsHandler{Base: base}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	listed, err := h.Notifications.ListForUser(r.Context(), actor.ID)
	if err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	data := h.data(r)
	data["notifications"] = listed
	h.Renderer.Render(w, http.StatusOK, "notifications/list", data)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.Renderer.Error(w, r, faults.NotFound("Page not found"))
		return
	}
	actor, _ := middleware.ActorFrom(r)
	if err := h.Notifications.MarkRead(r.Context(), id, actor); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r)
	if err := h.Notifications.MarkAllRead(r.Context(), actor); err != nil {
		h.Renderer.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}
