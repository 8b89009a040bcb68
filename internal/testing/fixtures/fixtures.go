// Package fixtures provides test data factories for integration testing.
//
// Each factory method creates entities with sensible defaults while allowing
// customization via option functions. Factories write through the real
// repositories and return fully populated models.
//
// Usage:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	svc := f.CreateService(t, user, fixtures.WithTags(model.TagPlumbing))
//	catalog := f.SeedCatalog(t)
package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/model"
	"github.com/forgo/marketplace/internal/repository"
)

// Factory creates test entities in the database
type Factory struct {
	users    *repository.UserRepository
	services *repository.ServiceRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users:    repository.NewUserRepository(db),
		services: repository.NewServiceRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	UserID  string
	Name    string
	Email   string
	Persona model.Persona
}

// CreateUser creates a customer with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		UserID:  "test_" + id,
		Name:    "User " + id,
		Email:   fmt.Sprintf("user_%s@test.local", id),
		Persona: model.Customer{},
	}
	for _, fn := range opts {
		fn(o)
	}

	u := &model.User{
		UserID:  o.UserID,
		Name:    o.Name,
		Email:   o.Email,
		Persona: o.Persona,
	}
	if err := f.users.Create(ctx(t), u); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return u
}

// CreateProvider creates a provider with the given skills
func (f *Factory) CreateProvider(t *testing.T, title string, skills ...model.Tag) *model.User {
	t.Helper()
	return f.CreateUser(t, func(o *UserOpts) {
		o.Persona = model.Provider{Profile: model.ProviderProfile{Title: title, Skills: skills}}
	})
}

// WithName sets the user's display name
func WithName(name string) func(*UserOpts) {
	return func(o *UserOpts) { o.Name = name }
}

// WithUserID sets the external (social) user id
func WithUserID(userID string) func(*UserOpts) {
	return func(o *UserOpts) { o.UserID = userID }
}

// ============================================================================
// Service Fixtures
// ============================================================================

// ServiceOpts customizes service creation
type ServiceOpts struct {
	Title    string
	Budget   float64
	Tags     []model.Tag
	Date     time.Time
	Location string
}

// CreateService creates a service owned by customer
func (f *Factory) CreateService(t *testing.T, customer *model.User, opts ...func(*ServiceOpts)) *model.Service {
	t.Helper()

	o := &ServiceOpts{
		Title:  "Service " + randomID(),
		Budget: 100,
		Tags:   []model.Tag{model.TagOthers},
		Date:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, fn := range opts {
		fn(o)
	}

	svc := &model.Service{
		CustomerID: customer.ID,
		Title:      o.Title,
		Budget:     o.Budget,
		Location:   o.Location,
		Tags:       o.Tags,
		Date:       o.Date,
	}
	if err := f.services.Create(ctx(t), svc); err != nil {
		t.Fatalf("fixtures: failed to create service: %v", err)
	}
	return svc
}

// WithTitle sets the service title
func WithTitle(title string) func(*ServiceOpts) {
	return func(o *ServiceOpts) { o.Title = title }
}

// WithBudget sets the service budget
func WithBudget(budget float64) func(*ServiceOpts) {
	return func(o *ServiceOpts) { o.Budget = budget }
}

// WithTags sets the service tags
func WithTags(tags ...model.Tag) func(*ServiceOpts) {
	return func(o *ServiceOpts) { o.Tags = tags }
}

// WithDate sets the service date from YYYY-MM-DD
func WithDate(date string) func(*ServiceOpts) {
	return func(o *ServiceOpts) {
		d, err := time.Parse(time.DateOnly, date)
		if err != nil {
			panic(err)
		}
		o.Date = d
	}
}

// ============================================================================
// Catalog
// ============================================================================

// Catalog is the reference data set: two customers and six services
type Catalog struct {
	Customer1 *model.User
	Customer2 *model.User
	Services  []*model.Service
}

// SeedCatalog creates the reference data set used by the filter tests.
//
//	Basic Service 1    customer1  300     plumbing, electrical                         2025-09-08
//	Basic Service 2    customer1  500     houseCleaning                                2025-08-25
//	Basic Service 3    customer2  400     houseRepair, others                          2025-08-15
//	Deluxe Service 1   customer2  1200.5  houseCleaning, hvac                          2025-09-02
//	Deluxe Service 2   customer1  1800    houseCleaning, plumbing, electrical, painting 2025-08-12
//	Deluxe Service 3   customer2  1500    landscaping, plumbing, electrical, others    2025-09-05
func (f *Factory) SeedCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := &Catalog{
		Customer1: f.CreateUser(t, WithName("User 1")),
		Customer2: f.CreateUser(t, WithName("User 2")),
	}

	seed := []struct {
		owner  *model.User
		title  string
		budget float64
		tags   []model.Tag
		date   string
	}{
		{c.Customer1, "Basic Service 1", 300, []model.Tag{model.TagPlumbing, model.TagElectrical}, "2025-09-08"},
		{c.Customer1, "Basic Service 2", 500, []model.Tag{model.TagHouseCleaning}, "2025-08-25"},
		{c.Customer2, "Basic Service 3", 400, []model.Tag{model.TagHouseRepair, model.TagOthers}, "2025-08-15"},
		{c.Customer2, "Deluxe Service 1", 1200.5, []model.Tag{model.TagHouseCleaning, model.TagHVAC}, "2025-09-02"},
		{c.Customer1, "Deluxe Service 2", 1800, []model.Tag{model.TagHouseCleaning, model.TagPlumbing, model.TagElectrical, model.TagPainting}, "2025-08-12"},
		{c.Customer2, "Deluxe Service 3", 1500, []model.Tag{model.TagLandscaping, model.TagPlumbing, model.TagElectrical, model.TagOthers}, "2025-09-05"},
	}
	for _, s := range seed {
		c.Services = append(c.Services, f.CreateService(t, s.owner,
			WithTitle(s.title), WithBudget(s.budget), WithTags(s.tags...), WithDate(s.date)))
	}
	return c
}
