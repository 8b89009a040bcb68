package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Role distinguishes customers (who post services) from providers (who offer skills)
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// ProviderProfile describes what a provider offers
type ProviderProfile struct {
	Title       string `json:"title" validate:"max=200"`
	Skills      []Tag  `json:"skills" validate:"omitempty,dive,servicetag"`
	Description string `json:"description" validate:"max=2000"`
}

// IsEmpty reports whether no profile field carries a value
func (p *ProviderProfile) IsEmpty() bool {
	return p == nil || (p.Title == "" && len(p.Skills) == 0 && p.Description == "")
}

// Persona is the role-specific part of a user. Customer and Provider are the
// only implementations, so a customer can never carry a provider profile.
type Persona interface {
	Role() Role
	persona()
}

// Customer is the persona of a user who posts services
type Customer struct{}

func (Customer) Role() Role { return RoleCustomer }
func (Customer) persona()   {}

// Provider is the persona of a user who offers services
type Provider struct {
	Profile ProviderProfile
}

func (Provider) Role() Role { return RoleProvider }
func (Provider) persona()   {}

// NewPersona builds the persona for role. An empty role means customer.
// A customer with a non-empty profile is rejected with ErrProfileRequiresProvider.
func NewPersona(role Role, profile *ProviderProfile) (Persona, error) {
	switch role {
	case "", RoleCustomer:
		if !profile.IsEmpty() {
			return nil, ErrProfileRequiresProvider
		}
		return Customer{}, nil
	case RoleProvider:
		p := Provider{}
		if profile != nil {
			p.Profile = ProviderProfile{
				Title:       profile.Title,
				Skills:      UniqueTags(profile.Skills),
				Description: profile.Description,
			}
		}
		if p.Profile.Skills == nil {
			p.Profile.Skills = []Tag{}
		}
		return p, nil
	}
	return nil, ErrInvalidRole
}

// User represents a marketplace account
type User struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	AvatarURL   string
	TelNumber   string
	Address     string
	Persona     Persona
	LastLoginAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Role returns the user's role, customer when no persona is set
func (u *User) Role() Role {
	if u.Persona == nil {
		return RoleCustomer
	}
	return u.Persona.Role()
}

// ProviderProfile returns the provider profile, or nil for customers
func (u *User) ProviderProfile() *ProviderProfile {
	if p, ok := u.Persona.(Provider); ok {
		return &p.Profile
	}
	return nil
}

type userJSON struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Role            Role             `json:"role"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	AvatarURL       string           `json:"avatarUrl"`
	TelNumber       string           `json:"telNumber"`
	Address         string           `json:"address"`
	ProviderProfile *ProviderProfile `json:"providerProfile,omitempty"`
	LastLoginAt     time.Time        `json:"lastLoginAt"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// MarshalJSON flattens the persona into role and providerProfile
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:              u.ID,
		UserID:          u.UserID,
		Role:            u.Role(),
		Name:            u.Name,
		Email:           u.Email,
		AvatarURL:       u.AvatarURL,
		TelNumber:       u.TelNumber,
		Address:         u.Address,
		ProviderProfile: u.ProviderProfile(),
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	})
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Role            Role             `json:"role" validate:"omitempty,oneof=customer provider"`
	Name            string           `json:"name" validate:"max=100"`
	Email           string           `json:"email" validate:"max=254,emailorempty"`
	AvatarURL       string           `json:"avatarUrl" validate:"avatarurl"`
	TelNumber       string           `json:"telNumber" validate:"telnumber"`
	Address         string           `json:"address" validate:"max=2000"`
	ProviderProfile *ProviderProfile `json:"providerProfile"`
}

// Normalize trims free-text fields and lower-cases the email
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.AvatarURL = strings.TrimSpace(r.AvatarURL)
}

// Validate checks field shapes and ranges
func (r *CreateUserRequest) Validate() []FieldError {
	return ValidateStruct(r)
}

// UpdateUserRequest is the body of PUT /users/{id}; nil fields are left unchanged
type UpdateUserRequest struct {
	Role            *Role            `json:"role" validate:"omitempty,oneof=customer provider"`
	Name            *string          `json:"name" validate:"omitempty,max=100"`
	Email           *string          `json:"email" validate:"omitempty,max=254,emailorempty"`
	AvatarURL       *string          `json:"avatarUrl" validate:"omitempty,avatarurl"`
	TelNumber       *string          `json:"telNumber" validate:"omitempty,telnumber"`
	Address         *string          `json:"address" validate:"omitempty,max=2000"`
	ProviderProfile *ProviderProfile `json:"providerProfile"`
}

// Normalize trims free-text fields and lower-cases the email
func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.AvatarURL != nil {
		v := strings.TrimSpace(*r.AvatarURL)
		r.AvatarURL = &v
	}
}

// Validate checks field shapes and ranges
func (r *UpdateUserRequest) Validate() []FieldError {
	return ValidateStruct(r)
}

// UserPatch holds the fields a partial update writes; nil fields keep their
// stored value.
type UserPatch struct {
	Name      *string
	Email     *string
	AvatarURL *string
	TelNumber *string
	Address   *string
	Persona   *PersonaChange
}

// IsEmpty reports whether the patch writes nothing
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.AvatarURL == nil && p.TelNumber == nil &&
		p.Address == nil && p.Persona == nil
}

// PersonaChange sets the role and provider profile in the same write.
//
//   - Role customer clears the profile.
//   - Role provider with a nil Profile keeps the stored profile, or starts an
//     empty one when there is none.
//
// When RequireRole is set the change applies only while the stored role still
// equals it.
type PersonaChange struct {
	Role        Role
	Profile     *ProviderProfile
	RequireRole Role
}

// SessionUser is the public view of the logged-in user
type SessionUser struct {
	Username   string `json:"username"`
	ProfileURL string `json:"profileUrl"`
}

// CascadeResult reports what a cascading user delete removed
type CascadeResult struct {
	Users    int
	Services int
	Sessions int
}
