package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// NewPersona Tests
// ============================================================================

func TestNewPersona_DefaultsToCustomer(t *testing.T) {
	t.Parallel()

	p, err := NewPersona("", nil)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, p.Role())
}

func TestNewPersona_CustomerWithProfileIsRejected(t *testing.T) {
	t.Parallel()

	_, err := NewPersona(RoleCustomer, &ProviderProfile{Title: "Plumber"})
	assert.True(t, errors.Is(err, ErrProfileRequiresProvider))
}

func TestNewPersona_CustomerWithEmptyProfileIsAccepted(t *testing.T) {
	t.Parallel()

	p, err := NewPersona(RoleCustomer, &ProviderProfile{})
	require.NoError(t, err)
	assert.Equal(t, Customer{}, p)
}

func TestNewPersona_ProviderDeduplicatesSkills(t *testing.T) {
	t.Parallel()

	p, err := NewPersona(RoleProvider, &ProviderProfile{
		Title:  "Handyman",
		Skills: []Tag{TagPlumbing, TagHVAC, TagPlumbing},
	})
	require.NoError(t, err)

	provider, ok := p.(Provider)
	require.True(t, ok)
	assert.Equal(t, "Handyman", provider.Profile.Title)
	assert.Equal(t, []Tag{TagPlumbing, TagHVAC}, provider.Profile.Skills)
}

func TestNewPersona_ProviderWithoutProfile(t *testing.T) {
	t.Parallel()

	p, err := NewPersona(RoleProvider, nil)
	require.NoError(t, err)
	assert.Equal(t, []Tag{}, p.(Provider).Profile.Skills)
}

func TestNewPersona_UnknownRole(t *testing.T) {
	t.Parallel()

	_, err := NewPersona("admin", nil)
	assert.True(t, errors.Is(err, ErrInvalidRole))
}

// ============================================================================
// User JSON Tests
// ============================================================================

func TestUser_MarshalJSON_Customer(t *testing.T) {
	t.Parallel()

	u := User{ID: "user:1", UserID: "google_1", Name: "Ann", Persona: Customer{}}
	data, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "customer", out["role"])
	assert.Equal(t, "google_1", out["userId"])
	assert.NotContains(t, out, "providerProfile")
}

func TestUser_MarshalJSON_Provider(t *testing.T) {
	t.Parallel()

	u := &User{ID: "user:2", Persona: Provider{Profile: ProviderProfile{
		Title:  "Electrician",
		Skills: []Tag{TagElectrical},
	}}}
	data, err := json.Marshal(u)
	require.NoError(t, err)

	var out struct {
		Role            string `json:"role"`
		ProviderProfile struct {
			Title  string   `json:"title"`
			Skills []string `json:"skills"`
		} `json:"providerProfile"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "provider", out.Role)
	assert.Equal(t, "Electrician", out.ProviderProfile.Title)
	assert.Equal(t, []string{"electrical"}, out.ProviderProfile.Skills)
}

func TestUser_RoleWithoutPersona(t *testing.T) {
	t.Parallel()

	u := &User{}
	assert.Equal(t, RoleCustomer, u.Role())
	assert.Nil(t, u.ProviderProfile())
}

func TestSocialProfile_SocialUserID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "line_U123", SocialProfile{Provider: "line", ID: "U123"}.SocialUserID())
}
