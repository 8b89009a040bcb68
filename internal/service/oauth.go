package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/forgo/marketplace/internal/metrics"
	"github.com/forgo/marketplace/internal/model"
)

// Supported OAuth providers
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderLine     = "line"
)

// ProviderSettings configures one OAuth provider. The endpoint and user-info
// URLs default to the provider's public ones when empty.
type ProviderSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

func (p ProviderSettings) enabled() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURL != ""
}

// SocialLogin turns a provider profile into a marketplace user
type SocialLogin interface {
	LoginSocial(ctx context.Context, p model.SocialProfile) (*model.User, error)
}

type oauthProvider struct {
	config      *oauth2.Config
	userInfoURL string
	parse       func([]byte) (model.SocialProfile, error)
}

// OAuthService handles social login through Google, Facebook and LINE
type OAuthService struct {
	providers  map[string]*oauthProvider
	users      SocialLogin
	httpClient *http.Client
}

// OAuthServiceConfig holds configuration for the OAuth service
type OAuthServiceConfig struct {
	Providers  map[string]ProviderSettings
	Users      SocialLogin
	HTTPClient *http.Client
}

// NewOAuthService creates a new OAuth service. Providers missing any of
// client id, secret or redirect URL are left disabled.
func NewOAuthService(cfg OAuthServiceConfig) *OAuthService {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	s := &OAuthService{
		providers:  make(map[string]*oauthProvider),
		users:      cfg.Users,
		httpClient: client,
	}

	defaults := map[string]struct {
		endpoint    oauth2.Endpoint
		scopes      []string
		userInfoURL string
		parse       func([]byte) (model.SocialProfile, error)
	}{
		ProviderGoogle: {
			endpoint:    endpoints.Google,
			scopes:      []string{"openid", "profile", "email"},
			userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
			parse:       parseGoogleProfile,
		},
		ProviderFacebook: {
			endpoint:    endpoints.Facebook,
			scopes:      []string{"public_profile", "email"},
			userInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
			parse:       parseFacebookProfile,
		},
		ProviderLine: {
			endpoint: oauth2.Endpoint{
				AuthURL:  "https://access.line.me/oauth2/v2.1/authorize",
				TokenURL: "https://api.line.me/oauth2/v2.1/token",
			},
			scopes:      []string{"profile", "openid"},
			userInfoURL: "https://api.line.me/v2/profile",
			parse:       parseLineProfile,
		},
	}

	for name, settings := range cfg.Providers {
		d, ok := defaults[name]
		if !ok || !settings.enabled() {
			continue
		}
		endpoint := d.endpoint
		if settings.AuthURL != "" {
			endpoint.AuthURL = settings.AuthURL
		}
		if settings.TokenURL != "" {
			endpoint.TokenURL = settings.TokenURL
		}
		userInfoURL := d.userInfoURL
		if settings.UserInfoURL != "" {
			userInfoURL = settings.UserInfoURL
		}

		s.providers[name] = &oauthProvider{
			config: &oauth2.Config{
				ClientID:     settings.ClientID,
				ClientSecret: settings.ClientSecret,
				RedirectURL:  settings.RedirectURL,
				Endpoint:     endpoint,
				Scopes:       d.scopes,
			},
			userInfoURL: userInfoURL,
			parse:       d.parse,
		}
	}
	return s
}

// Providers lists the enabled providers
func (s *OAuthService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AuthCodeURL returns the provider consent page URL for state
func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrProviderNotFound
	}
	return p.config.AuthCodeURL(state), nil
}

// Authenticate exchanges an authorization code, fetches the provider
// profile and logs the user in
func (s *OAuthService) Authenticate(ctx context.Context, provider, code string) (*model.User, error) {
	profile, err := s.Exchange(ctx, provider, code)
	if err != nil {
		metrics.Logins.WithLabelValues(provider, "failure").Inc()
		return nil, err
	}

	user, err := s.users.LoginSocial(ctx, profile)
	if err != nil {
		metrics.Logins.WithLabelValues(provider, "failure").Inc()
		return nil, err
	}
	metrics.Logins.WithLabelValues(provider, "success").Inc()
	return user, nil
}

// Exchange trades an authorization code for the provider's normalized profile
func (s *OAuthService) Exchange(ctx context.Context, provider, code string) (model.SocialProfile, error) {
	p, ok := s.providers[provider]
	if !ok {
		return model.SocialProfile{}, ErrProviderNotFound
	}
	if code == "" {
		return model.SocialProfile{}, fmt.Errorf("%w: missing authorization code", ErrProviderError)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return model.SocialProfile{}, fmt.Errorf("%w: token exchange: %v", ErrProviderError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return model.SocialProfile{}, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return model.SocialProfile{}, fmt.Errorf("%w: user info: %v", ErrProviderError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.SocialProfile{}, fmt.Errorf("%w: user info: %v", ErrProviderError, err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.SocialProfile{}, fmt.Errorf("%w: user info status %d", ErrProviderError, resp.StatusCode)
	}

	profile, err := p.parse(body)
	if err != nil {
		return model.SocialProfile{}, fmt.Errorf("%w: %v", ErrProviderError, err)
	}
	profile.Provider = provider
	if profile.ID == "" {
		return model.SocialProfile{}, ErrIncompleteProfile
	}
	return profile, nil
}

// GoogleUserInfo is the OpenID Connect user-info response
type GoogleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func parseGoogleProfile(body []byte) (model.SocialProfile, error) {
	var u GoogleUserInfo
	if err := json.Unmarshal(body, &u); err != nil {
		return model.SocialProfile{}, err
	}
	return model.SocialProfile{ID: u.Sub, Name: u.Name, Email: u.Email, PictureURL: u.Picture}, nil
}

// FacebookUserInfo is the Graph API /me response
type FacebookUserInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

func parseFacebookProfile(body []byte) (model.SocialProfile, error) {
	var u FacebookUserInfo
	if err := json.Unmarshal(body, &u); err != nil {
		return model.SocialProfile{}, err
	}
	return model.SocialProfile{ID: u.ID, Name: u.Name, Email: u.Email, PictureURL: u.Picture.Data.URL}, nil
}

// LineUserInfo is the LINE profile API response
type LineUserInfo struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

func parseLineProfile(body []byte) (model.SocialProfile, error) {
	var u LineUserInfo
	if err := json.Unmarshal(body, &u); err != nil {
		return model.SocialProfile{}, err
	}
	return model.SocialProfile{ID: u.UserID, Name: u.DisplayName, PictureURL: u.PictureURL}, nil
}
