package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/marketplace/internal/middleware"
	"github.com/forgo/marketplace/internal/model"
	"github.com/forgo/marketplace/internal/service"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 10 * time.Minute
)

// AuthHandler handles social login, logout and the session lookup
type AuthHandler struct {
	oauthService   *service.OAuthService
	sessionService *service.SessionService
	clientURL      string
	secureCookies  bool
	cookieMaxAge   time.Duration
}

// AuthHandlerConfig holds configuration for the auth handler
type AuthHandlerConfig struct {
	OAuthService   *service.OAuthService
	SessionService *service.SessionService
	ClientURL      string
	SecureCookies  bool
	CookieMaxAge   time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	maxAge := cfg.CookieMaxAge
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &AuthHandler{
		oauthService:   cfg.OAuthService,
		sessionService: cfg.SessionService,
		clientURL:      cfg.ClientURL,
		secureCookies:  cfg.SecureCookies,
		cookieMaxAge:   maxAge,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/{provider}", h.Login)
	mux.HandleFunc("GET /auth/{provider}/callback", h.Callback)
	mux.HandleFunc("DELETE /logout", h.Logout)
	mux.HandleFunc("GET /session", h.Session)
}

// Login handles GET /auth/{provider} by redirecting to the provider consent page
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	state, stateCookie := h.sessionService.NewState()
	target, err := h.oauthService.AuthCodeURL(provider, state)
	if err != nil {
		respondError(w, r, err, "Failed to start login")
		return
	}

	http.SetCookie(w, h.cookie(stateCookieName, stateCookie, stateCookieMaxAge))
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback handles GET /auth/{provider}/callback. Success and failure both
// redirect back to the client; only success sets the session cookie.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	query := r.URL.Query()

	fail := func(err error) {
		slog.Warn("social login failed",
			slog.String("provider", provider),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()))
		http.SetCookie(w, h.expiredCookie(stateCookieName))
		http.Redirect(w, r, h.clientURL+"/login", http.StatusFound)
	}

	if denied := query.Get("error"); denied != "" {
		fail(fmt.Errorf("%w: %s", service.ErrProviderError, denied))
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		fail(service.ErrInvalidState)
		return
	}
	if err := h.sessionService.VerifyState(stateCookie.Value, query.Get("state")); err != nil {
		fail(err)
		return
	}

	user, err := h.oauthService.Authenticate(r.Context(), provider, query.Get("code"))
	if err != nil {
		fail(err)
		return
	}

	sid, _, err := h.sessionService.Issue(r.Context(), user.ID)
	if err != nil {
		fail(err)
		return
	}

	slog.Info("user logged in",
		slog.String("provider", provider),
		slog.String("user_id", user.ID))

	http.SetCookie(w, h.expiredCookie(stateCookieName))
	http.SetCookie(w, h.cookie(middleware.SessionCookieName, sid, h.cookieMaxAge))
	http.Redirect(w, r, h.clientURL, http.StatusFound)
}

// Logout handles DELETE /logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.sessionService.Revoke(r.Context(), c.Value); err != nil {
			slog.Error("failed to revoke session",
				slog.String("request_id", middleware.GetRequestID(r.Context())),
				slog.String("error", err.Error()))
		}
	}

	http.SetCookie(w, h.expiredCookie(middleware.SessionCookieName))
	WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// Session handles GET /session, returning the logged-in user's public view
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		WriteError(w, model.NewUnauthorizedError("Not authenticated"))
		return
	}

	user, err := h.sessionService.CurrentUser(r.Context(), c.Value)
	if err != nil {
		respondError(w, r, err, "Failed to fetch session")
		return
	}

	WriteData(w, http.StatusOK, model.SessionUser{
		Username:   user.Name,
		ProfileURL: user.AvatarURL,
	}, "")
}

func (h *AuthHandler) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) expiredCookie(name string) *http.Cookie {
	c := h.cookie(name, "", 0)
	c.MaxAge = -1
	return c
}
