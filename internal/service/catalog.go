package service

import (
	"context"
	"log/slog"

	"github.com/forgo/marketplace/internal/metrics"
	"github.com/forgo/marketplace/internal/model"
)

// ServiceRepository defines the service (job posting) data access
type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
	Filter(ctx context.Context, f model.ServiceFilter) ([]*model.Service, error)
	Update(ctx context.Context, id string, patch model.ServicePatch) (*model.Service, error)
	Delete(ctx context.Context, id string) (*model.Service, error)
	DeleteOrphans(ctx context.Context) ([]*model.Service, error)
}

// CustomerLookup resolves the owner of a new service
type CustomerLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// CatalogService manages the services customers post
type CatalogService struct {
	serviceRepo ServiceRepository
	userRepo    CustomerLookup
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	ServiceRepo ServiceRepository
	UserRepo    CustomerLookup
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	return &CatalogService{
		serviceRepo: cfg.ServiceRepo,
		userRepo:    cfg.UserRepo,
	}
}

// List returns every service
func (s *CatalogService) List(ctx context.Context) ([]*model.Service, error) {
	return s.serviceRepo.List(ctx)
}

// Get returns one service
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// Filter returns the services matching every criterion present in f.
// An empty filter returns all services.
func (s *CatalogService) Filter(ctx context.Context, f model.ServiceFilter) ([]*model.Service, error) {
	if f.IsEmpty() {
		return s.serviceRepo.List(ctx)
	}
	return s.serviceRepo.Filter(ctx, f)
}

// Create posts a new service for an existing customer
func (s *CatalogService) Create(ctx context.Context, req model.CreateServiceRequest) (*model.Service, error) {
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	customer, err := s.userRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Fields: []model.FieldError{{Field: "date", Message: err.Error()}}}
	}

	svc := &model.Service{
		CustomerID:  customer.ID,
		Title:       req.Title,
		Description: req.Description,
		TelNumber:   req.TelNumber,
		Location:    req.Location,
		Tags:        uniqueOrEmpty(req.Tags),
		Date:        date,
	}
	if req.Budget != nil {
		svc.Budget = *req.Budget
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Update writes the fields present in req and returns the stored result.
// Fields absent from req are left to whatever the store holds.
func (s *CatalogService) Update(ctx context.Context, id string, req model.UpdateServiceRequest) (*model.Service, error) {
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return s.Get(ctx, id)
	}

	patch := model.ServicePatch{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		TelNumber:   req.TelNumber,
		Location:    req.Location,
	}
	if req.Tags != nil {
		patch.Tags = uniqueOrEmpty(req.Tags)
	}
	if req.Date != nil {
		date, err := model.ParseDate(*req.Date)
		if err != nil {
			return nil, &ValidationError{Fields: []model.FieldError{{Field: "date", Message: err.Error()}}}
		}
		patch.Date = &date
	}

	updated, err := s.serviceRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrServiceNotFound
	}
	return updated, nil
}

// Delete removes a service and returns it as it was
func (s *CatalogService) Delete(ctx context.Context, id string) (*model.Service, error) {
	svc, err := s.serviceRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// SweepOrphans deletes services whose customer no longer exists and
// returns how many were removed
func (s *CatalogService) SweepOrphans(ctx context.Context) (int, error) {
	swept, err := s.serviceRepo.DeleteOrphans(ctx)
	if err != nil {
		return 0, err
	}
	for _, svc := range swept {
		slog.Warn("orphan service removed",
			slog.String("service_id", svc.ID),
			slog.String("customer_id", svc.CustomerID))
	}
	metrics.OrphanServicesSwept.Add(float64(len(swept)))
	return len(swept), nil
}

func uniqueOrEmpty(tags []model.Tag) []model.Tag {
	out := model.UniqueTags(tags)
	if out == nil {
		return []model.Tag{}
	}
	return out
}
