package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/eventura-app/server/internal/web/render"
	"github.com/rs/zerolog"
)

// Recover turns a handler panic into the 500 error page.
func Recover(renderer *render.Renderer, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error().
						Interface("panic", recovered).
						Str("path", r.URL.Path).
						Str("stack", string(debug.Stack())).
						Msg("handler panicked")
					renderer.Error(w, r, fmt.Errorf("panic: %v", recovered))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
