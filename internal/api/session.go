// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/log"
)

// SessionCookie holds the client ID.
const SessionCookie = "shortify_client"

const sessionMaxAge = 365 * 24 * time.Hour

type ctxKey int

const controllerKey ctxKey = iota

// session resolves the client ID cookie, issuing a new UUID when it is
// missing or malformed, and attaches the session controller to the context.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				clientID = id.String()
			}
		}
		if clientID == "" {
			clientID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    clientID,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   s.cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := log.ContextWithClientID(r.Context(), clientID)
		ctrl := s.deps.Sessions.Get(context.WithoutCancel(ctx), clientID)
		ctx = context.WithValue(ctx, controllerKey, ctrl)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func controllerFrom(ctx context.Context) *app.Controller {
	c, _ := ctx.Value(controllerKey).(*app.Controller)
	return c
}
