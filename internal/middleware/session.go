package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/forgo/marketplace/internal/model"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "sid"

// SessionResolver turns a session cookie value into a live session
type SessionResolver interface {
	Resolve(ctx context.Context, cookie string) (*model.Session, error)
}

// Session puts the logged-in user's id on the request context when the
// request carries a valid session cookie. It never rejects a request;
// handlers that need a user check GetUserID.
func Session(resolver SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := resolver.Resolve(r.Context(), c.Value)
			if err != nil {
				slog.Debug("session not resolved",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, sess.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
