package model

import "time"

// Session is a server-side login session. Only the hash of the cookie token is stored.
type Session struct {
	ID        string
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SocialProfile is the normalized identity returned by an OAuth provider
type SocialProfile struct {
	Provider   string
	ID         string
	Name       string
	Email      string
	PictureURL string
}

// SocialUserID is the stable external id for a social login, e.g. "google_1234"
func (p SocialProfile) SocialUserID() string {
	return p.Provider + "_" + p.ID
}
