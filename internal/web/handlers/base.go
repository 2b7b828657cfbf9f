package handlers

import (
	"net/http"
	"strconv"

	"github.com/eventura-app/server/internal/domain/notifications"
	"github.com/eventura-app/server/internal/web/middleware"
	"github.com/eventura-app/server/internal/web/render"
	"github.com/gorilla/csrf"
)

// Base carries what every page handler needs: the renderer and the
// notification service backing the unread badge in the navigation.
type Base struct {
	Renderer      *render.Renderer
	Notifications *notifications.Service
}

// data seeds the view data for a page: CSRF field, the actor if logged
// in, and their unread notification count.
func (b *Base) data(r *http.Request) map[string]any {
	data := map[string]any{
		"csrfField": csrf.TemplateField(r),
	}
	actor, ok := middleware.ActorFrom(r)
	if !ok {
		return data
	}
	data["actor"] = actor
	if b.Notifications != nil {
		if count, err := b.Notifications.UnreadCount(r.Context(), actor.ID); err == nil && count > 0 {
			data["unreadCount"] = count
		}
	}
	return data
}

// pathID parses the {id} path value; false means the route received a
// non-numeric ID and the caller should 404.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
