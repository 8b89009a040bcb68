package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/forgo/marketplace/internal/model"
)

type stubResolver struct {
	sessions map[string]*model.Session
	calls    int
}

func (s *stubResolver) Resolve(ctx context.Context, cookie string) (*model.Session, error) {
	s.calls++
	if sess, ok := s.sessions[cookie]; ok {
		return sess, nil
	}
	return nil, errors.New("session not found")
}

func TestSession(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{sessions: map[string]*model.Session{
		"good": {UserID: "user:1", ExpiresAt: time.Now().Add(time.Hour)},
	}}

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{"valid cookie", &http.Cookie{Name: SessionCookieName, Value: "good"}, "user:1"},
		{"unknown cookie", &http.Cookie{Name: SessionCookieName, Value: "bad"}, ""},
		{"other cookie", &http.Cookie{Name: "theme", Value: "good"}, ""},
		{"no cookie", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			called := false
			handler := Session(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = GetUserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/session", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.True(t, called, "request must never be rejected")
			assert.Equal(t, tt.want, got)
		})
	}
}
