package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/marketplace/internal/model"
)

type catalogFixture struct {
	svc      *CatalogService
	users    *mockUserRepo
	services *mockServiceRepo
	customer *model.User
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	users := newMockUserRepo()
	services := newMockServiceRepo(users)
	customer := &model.User{UserID: "c1", Name: "Customer 1", Persona: model.Customer{}}
	require.NoError(t, users.Create(context.Background(), customer))

	return &catalogFixture{
		svc:      NewCatalogService(CatalogServiceConfig{ServiceRepo: services, UserRepo: users}),
		users:    users,
		services: services,
		customer: customer,
	}
}

func validServiceRequest(customerID string) model.CreateServiceRequest {
	return model.CreateServiceRequest{
		CustomerID: customerID,
		Title:      "Fix kitchen sink",
		Budget:     ptr(300.0),
		Tags:       []model.Tag{model.TagPlumbing, model.TagElectrical, model.TagPlumbing},
		Date:       "2023-09-08",
	}
}

// ============================================================================
// Create Tests
// ============================================================================

func TestCatalogService_Create(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	svc, err := f.svc.Create(context.Background(), validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, svc.ID)
	assert.Equal(t, f.customer.ID, svc.CustomerID)
	assert.Equal(t, 300.0, svc.Budget)
	assert.Equal(t, []model.Tag{model.TagPlumbing, model.TagElectrical}, svc.Tags)
	assert.Equal(t, time.Date(2023, 9, 8, 0, 0, 0, 0, time.UTC), svc.Date)
}

func TestCatalogService_Create_NoTagsStoresEmptyList(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	req := validServiceRequest(f.customer.ID)
	req.Tags = nil
	svc, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotNil(t, svc.Tags)
	assert.Empty(t, svc.Tags)
}

func TestCatalogService_Create_MissingCustomer(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	_, err := f.svc.Create(context.Background(), validServiceRequest("user:999"))
	assert.True(t, errors.Is(err, ErrCustomerNotFound))
	assert.Empty(t, f.services.services)
}

func TestCatalogService_Create_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*model.CreateServiceRequest)
	}{
		{"missing title", func(r *model.CreateServiceRequest) { r.Title = "" }},
		{"three decimals", func(r *model.CreateServiceRequest) { r.Budget = ptr(100.475) }},
		{"negative budget", func(r *model.CreateServiceRequest) { r.Budget = ptr(-1.0) }},
		{"budget over max", func(r *model.CreateServiceRequest) { r.Budget = ptr(1e8) }},
		{"unknown tag", func(r *model.CreateServiceRequest) { r.Tags = []model.Tag{"roofing"} }},
		{"bad date", func(r *model.CreateServiceRequest) { r.Date = "08/09/2023" }},
		{"bad phone", func(r *model.CreateServiceRequest) { r.TelNumber = "+66812345678" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)
			req := validServiceRequest(f.customer.ID)
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), req)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

// ============================================================================
// Filter Tests
// ============================================================================

func TestCatalogService_Filter_EmptyListsEverything(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	got, err := f.svc.Filter(ctx, model.ServiceFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Empty(t, f.services.filtered)
}

func TestCatalogService_Filter_DelegatesCriteria(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	filter := model.ServiceFilter{Title: "sink", MinBudget: ptr(100.0)}

	got, err := f.svc.Filter(context.Background(), filter)
	require.NoError(t, err)
	assert.NotNil(t, got)
	require.Len(t, f.services.filtered, 1)
	assert.Equal(t, filter, f.services.filtered[0])
}

// ============================================================================
// Update / Delete Tests
// ============================================================================

func TestCatalogService_Update(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, model.UpdateServiceRequest{
		Title:  ptr("Fix bathroom sink"),
		Budget: ptr(450.5),
		Tags:   []model.Tag{},
		Date:   ptr("2023-10-01T09:30:00+07:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Fix bathroom sink", updated.Title)
	assert.Equal(t, 450.5, updated.Budget)
	assert.Empty(t, updated.Tags)
	assert.Equal(t, time.Date(2023, 10, 1, 2, 30, 0, 0, time.UTC), updated.Date)
	assert.Equal(t, f.customer.ID, updated.CustomerID)
}

// racingServiceRepo runs interleave right before each write reaches the store
type racingServiceRepo struct {
	*mockServiceRepo
	interleave func()
}

func (r racingServiceRepo) Update(ctx context.Context, id string, patch model.ServicePatch) (*model.Service, error) {
	if r.interleave != nil {
		r.interleave()
	}
	return r.mockServiceRepo.Update(ctx, id, patch)
}

func TestCatalogService_Update_KeepsConcurrentWrites(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	racing := racingServiceRepo{mockServiceRepo: f.services, interleave: func() {
		_, err := f.services.Update(ctx, created.ID, model.ServicePatch{Budget: ptr(999.0)})
		require.NoError(t, err)
	}}
	svc := NewCatalogService(CatalogServiceConfig{ServiceRepo: racing, UserRepo: f.users})

	updated, err := svc.Update(ctx, created.ID, model.UpdateServiceRequest{Title: ptr("new title")})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, 999.0, updated.Budget)

	stored, err := f.services.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 999.0, stored.Budget)
	assert.Equal(t, "new title", stored.Title)
	assert.ElementsMatch(t, created.Tags, stored.Tags)
}

func TestCatalogService_Update_EmptyReturnsCurrent(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, created.ID, model.UpdateServiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
}

func TestCatalogService_Update_NotFound(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	_, err := f.svc.Update(context.Background(), "service:404", model.UpdateServiceRequest{Title: ptr("x")})
	assert.True(t, errors.Is(err, ErrServiceNotFound))
}

func TestCatalogService_Delete(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	deleted, err := f.svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = f.svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrServiceNotFound))

	_, err = f.svc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrServiceNotFound))
}

// ============================================================================
// Orphan Sweep Tests
// ============================================================================

func TestCatalogService_SweepOrphans(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, validServiceRequest(f.customer.ID))
	require.NoError(t, err)

	// A service whose owner vanished outside the cascade
	require.NoError(t, f.services.Create(ctx, &model.Service{CustomerID: "user:gone", Title: "orphan"}))

	n, err := f.svc.SweepOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, f.customer.ID, remaining[0].CustomerID)
}

func TestCatalogService_SweepOrphans_Error(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	f.services.err = errors.New("db down")
	_, err := f.svc.SweepOrphans(context.Background())
	assert.Error(t, err)
}
