package middleware

import (
	"context"
	"net/http"

	"github.com/eventura-app/server/internal/auth"
	"github.com/eventura-app/server/internal/domain/faults"
	"github.com/eventura-app/server/internal/domain/users"
	"github.com/eventura-app/server/internal/web/render"
)

type contextKeyAuth string

const actorKey contextKeyAuth = "actor"

// SessionAuth resolves the session cookie into an actor on the request
// context. An absent or invalid cookie is not an error here; routes that
// need a login gate with RequireUser or RequireAdmin.
func SessionAuth(manager *auth.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := manager.ActorFromRequest(r)
			if err == nil {
				r = r.WithContext(contextWithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin renders the 403 page for non-admin actors. Anonymous
// requests are redirected to login instead.
func RequireAdmin(renderer *render.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if !actor.Admin {
				renderer.Error(w, r, faults.Unauthorized("Administrator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithActor(ctx context.Context, actor users.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated actor on the request, if any.
func ActorFrom(r *http.Request) (users.Actor, bool) {
	actor, ok := r.Context().Value(actorKey).(users.Actor)
	return actor, ok
}
