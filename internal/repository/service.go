package repository

import (
	"context"
	"errors"

	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/model"
)

// ServiceRepository handles service (job posting) data access
type ServiceRepository struct {
	db database.Database
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db database.Database) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func serviceFields(s *model.Service) (string, map[string]interface{}, bool) {
	customerKey, ok := recordKey("user", s.CustomerID)
	if !ok {
		return "", nil, false
	}

	tags := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		tags[i] = string(t)
	}

	set := `customer = type::thing("user", $customer_key),
			title = $title,
			description = $description,
			budget = $budget,
			tel_number = $tel_number,
			location = $location,
			tags = $tags,
			date = <datetime>$date`

	vars := map[string]interface{}{
		"customer_key": customerKey,
		"title":        s.Title,
		"description":  s.Description,
		"budget":       s.Budget,
		"tel_number":   s.TelNumber,
		"location":     s.Location,
		"tags":         tags,
		"date":         formatTime(s.Date),
	}
	return set, vars, true
}

// Create inserts a service and fills in its id and timestamps
func (r *ServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	set, vars, ok := serviceFields(svc)
	if !ok {
		return database.ErrConstraint
	}
	query := `
		CREATE service SET
			` + set + `,
			created_on = time::now(),
			updated_on = time::now()
	`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	records := firstStatementRecords(result)
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	*svc = *parseService(records[0])
	return nil
}

// GetByID retrieves a service by record id; nil when it does not exist
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*model.Service, error) {
	key, ok := recordKey("service", id)
	if !ok {
		return nil, nil
	}
	services, err := r.query(ctx, `SELECT * FROM type::thing("service", $key)`, map[string]interface{}{"key": key})
	if err != nil || len(services) == 0 {
		return nil, err
	}
	return services[0], nil
}

// List returns all services in creation order
func (r *ServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	return r.query(ctx, `SELECT * FROM service ORDER BY created_on ASC`, nil)
}

// Filter returns the services matching every present criterion of f, by date
func (r *ServiceRepository) Filter(ctx context.Context, f model.ServiceFilter) ([]*model.Service, error) {
	where, vars := buildServiceFilter(f)
	query := `SELECT * FROM service`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date ASC`
	return r.query(ctx, query, vars)
}

// Update writes only the fields present in patch; nil when the service does not exist
func (r *ServiceRepository) Update(ctx context.Context, id string, patch model.ServicePatch) (*model.Service, error) {
	key, ok := recordKey("service", id)
	if !ok {
		return nil, nil
	}

	query := `UPDATE service SET updated_on = time::now()`
	vars := map[string]interface{}{
		"key": key,
	}

	if patch.Title != nil {
		query += ", title = $title"
		vars["title"] = *patch.Title
	}
	if patch.Description != nil {
		query += ", description = $description"
		vars["description"] = *patch.Description
	}
	if patch.Budget != nil {
		query += ", budget = $budget"
		vars["budget"] = *patch.Budget
	}
	if patch.TelNumber != nil {
		query += ", tel_number = $tel_number"
		vars["tel_number"] = *patch.TelNumber
	}
	if patch.Location != nil {
		query += ", location = $location"
		vars["location"] = *patch.Location
	}
	if patch.Tags != nil {
		tags := make([]string, len(patch.Tags))
		for i, t := range patch.Tags {
			tags[i] = string(t)
		}
		query += ", tags = $tags"
		vars["tags"] = tags
	}
	if patch.Date != nil {
		query += ", date = <datetime>$date"
		vars["date"] = formatTime(*patch.Date)
	}

	query += ` WHERE id = type::thing("service", $key) RETURN AFTER`

	services, err := r.query(ctx, query, vars)
	if err != nil || len(services) == 0 {
		return nil, err
	}
	return services[0], nil
}

// Delete removes a service and returns it as it was; nil when it did not exist
func (r *ServiceRepository) Delete(ctx context.Context, id string) (*model.Service, error) {
	key, ok := recordKey("service", id)
	if !ok {
		return nil, nil
	}
	services, err := r.query(ctx,
		`DELETE service WHERE id = type::thing("service", $key) RETURN BEFORE`,
		map[string]interface{}{"key": key})
	if err != nil || len(services) == 0 {
		return nil, err
	}
	return services[0], nil
}

// DeleteOrphans removes services whose customer no longer exists and returns them
func (r *ServiceRepository) DeleteOrphans(ctx context.Context) ([]*model.Service, error) {
	return r.query(ctx, `DELETE service WHERE customer.id = NONE RETURN BEFORE`, nil)
}

func (r *ServiceRepository) query(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Service, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	records := firstStatementRecords(result)
	services := make([]*model.Service, 0, len(records))
	for _, rec := range records {
		services = append(services, parseService(rec))
	}
	return services, nil
}

func parseService(data map[string]interface{}) *model.Service {
	raw := getStringSlice(data, "tags")
	tags := make([]model.Tag, len(raw))
	for i, t := range raw {
		tags[i] = model.Tag(t)
	}

	return &model.Service{
		ID:          convertSurrealID(data["id"]),
		CustomerID:  convertSurrealID(data["customer"]),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		Budget:      getFloat(data, "budget"),
		TelNumber:   getString(data, "tel_number"),
		Location:    getString(data, "location"),
		Tags:        tags,
		Date:        getTime(data, "date"),
		CreatedAt:   getTime(data, "created_on"),
		UpdatedAt:   getTime(data, "updated_on"),
	}
}
