package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/forgo/marketplace/internal/metrics"
	"github.com/forgo/marketplace/internal/model"
)

// UserRepository defines the user data access the services need
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUserID(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
	TouchLogin(ctx context.Context, id, name, avatarURL string) (*model.User, error)
	DeleteCascade(ctx context.Context, id string) (*model.CascadeResult, error)
	DeleteAllCascade(ctx context.Context) (*model.CascadeResult, error)
}

// UserService handles user accounts
type UserService struct {
	userRepo  UserRepository
	newUserID func() string
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	return &UserService{
		userRepo:  cfg.UserRepo,
		newUserID: uuid.NewString,
	}
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Create registers a user. The role defaults to customer and the external
// user id to a random UUID.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Normalize()
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	persona, err := model.NewPersona(req.Role, req.ProviderProfile)
	if err != nil {
		return nil, personaError(err)
	}

	user := &model.User{
		UserID:    s.newUserID(),
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		TelNumber: req.TelNumber,
		Address:   req.Address,
		Persona:   persona,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// maxUpdateAttempts bounds retries of a profile update whose role guard missed
const maxUpdateAttempts = 3

// Update writes the fields present in req and returns the stored result.
// Switching a provider to customer drops the provider profile.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	req.Normalize()
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	patch := model.UserPatch{
		Name:      req.Name,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
		TelNumber: req.TelNumber,
		Address:   req.Address,
	}

	for attempt := 1; ; attempt++ {
		change, err := s.personaChange(ctx, id, req)
		if err != nil {
			return nil, err
		}
		patch.Persona = change
		if patch.IsEmpty() {
			return s.Get(ctx, id)
		}

		updated, err := s.userRepo.Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		if updated != nil {
			return updated, nil
		}
		if change == nil || change.RequireRole == "" {
			return nil, ErrUserNotFound
		}
		if attempt == maxUpdateAttempts {
			return nil, ErrConcurrentUpdate
		}
		slog.Debug("user role changed during update; retrying", slog.String("user_id", id))
	}
}

// personaChange works out the role and profile part of an update. Only a
// profile sent without a role depends on the stored role; that change is
// guarded so it applies only while the user is still a provider.
func (s *UserService) personaChange(ctx context.Context, id string, req model.UpdateUserRequest) (*model.PersonaChange, error) {
	if req.Role != nil {
		persona, err := model.NewPersona(*req.Role, req.ProviderProfile)
		if err != nil {
			return nil, personaError(err)
		}
		change := &model.PersonaChange{Role: persona.Role()}
		if p, ok := persona.(model.Provider); ok && req.ProviderProfile != nil {
			change.Profile = &p.Profile
		}
		return change, nil
	}

	if req.ProviderProfile == nil {
		return nil, nil
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	persona, err := model.NewPersona(user.Role(), req.ProviderProfile)
	if err != nil {
		return nil, personaError(err)
	}
	p, ok := persona.(model.Provider)
	if !ok {
		return nil, nil
	}
	return &model.PersonaChange{
		Role:        model.RoleProvider,
		Profile:     &p.Profile,
		RequireRole: model.RoleProvider,
	}, nil
}

// Delete removes a user together with the services and sessions it owns
func (s *UserService) Delete(ctx context.Context, id string) (*model.CascadeResult, error) {
	res, err := s.userRepo.DeleteCascade(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Users == 0 {
		return nil, ErrUserNotFound
	}

	metrics.CascadeDeletedServices.Add(float64(res.Services))
	slog.Info("user deleted",
		slog.String("user_id", id),
		slog.Int("services", res.Services),
		slog.Int("sessions", res.Sessions))
	return res, nil
}

// DeleteAll removes every user, service and session
func (s *UserService) DeleteAll(ctx context.Context) (*model.CascadeResult, error) {
	res, err := s.userRepo.DeleteAllCascade(ctx)
	if err != nil {
		return nil, err
	}

	metrics.CascadeDeletedServices.Add(float64(res.Services))
	slog.Warn("all users deleted",
		slog.Int("users", res.Users),
		slog.Int("services", res.Services))
	return res, nil
}

// LoginSocial finds the user for a social profile, creating a customer on
// first login, and records the login.
func (s *UserService) LoginSocial(ctx context.Context, p model.SocialProfile) (*model.User, error) {
	if p.Provider == "" || p.ID == "" {
		return nil, ErrIncompleteProfile
	}

	name := truncate(strings.TrimSpace(p.Name), 100)
	avatar := strings.TrimSpace(p.PictureURL)
	if !model.ValidAvatarURL(avatar) {
		avatar = ""
	}

	user, err := s.userRepo.GetByUserID(ctx, p.SocialUserID())
	if err != nil {
		return nil, err
	}
	if user != nil {
		touched, err := s.userRepo.TouchLogin(ctx, user.ID, name, avatar)
		if err != nil {
			return nil, err
		}
		if touched == nil {
			return nil, ErrUserNotFound
		}
		return touched, nil
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if len(email) > 254 || model.Validator().Var(email, "omitempty,email") != nil {
		email = ""
	}

	user = &model.User{
		UserID:    p.SocialUserID(),
		Name:      name,
		Email:     email,
		AvatarURL: avatar,
		Persona:   model.Customer{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("user registered via social login",
		slog.String("provider", p.Provider),
		slog.String("user_id", user.ID))
	return user, nil
}

func personaError(err error) error {
	if errors.Is(err, model.ErrProfileRequiresProvider) {
		return &ValidationError{Fields: []model.FieldError{{Field: "providerProfile", Message: err.Error()}}}
	}
	return &ValidationError{Fields: []model.FieldError{{Field: "role", Message: err.Error()}}}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
