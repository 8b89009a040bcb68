package model

import (
	"errors"
	"strings"
	"time"
)

// Tag is a service category from the controlled vocabulary
type Tag string

const (
	TagHouseCleaning Tag = "houseCleaning"
	TagHouseRepair   Tag = "houseRepair"
	TagPlumbing      Tag = "plumbing"
	TagElectrical    Tag = "electrical"
	TagHVAC          Tag = "hvac"
	TagPainting      Tag = "painting"
	TagLandscaping   Tag = "landscaping"
	TagOthers        Tag = "others"
)

// Tags lists the full vocabulary in display order
var Tags = []Tag{
	TagHouseCleaning,
	TagHouseRepair,
	TagPlumbing,
	TagElectrical,
	TagHVAC,
	TagPainting,
	TagLandscaping,
	TagOthers,
}

// Valid reports whether t belongs to the vocabulary
func (t Tag) Valid() bool {
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// UniqueTags drops repeated tags, keeping first-seen order
func UniqueTags(tags []Tag) []Tag {
	if tags == nil {
		return nil
	}
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Service is a job posting owned by one customer
type Service struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	TelNumber   string    `json:"telNumber"`
	Location    string    `json:"location"`
	Tags        []Tag     `json:"tags"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateServiceRequest is the body of POST /services
type CreateServiceRequest struct {
	CustomerID  string   `json:"customerId" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Budget      *float64 `json:"budget" validate:"omitempty,budget"`
	TelNumber   string   `json:"telNumber" validate:"telnumber"`
	Location    string   `json:"location" validate:"max=2000"`
	Tags        []Tag    `json:"tags" validate:"omitempty,dive,servicetag"`
	Date        string   `json:"date" validate:"required,flexdate"`
}

// Validate checks field shapes and ranges
func (r *CreateServiceRequest) Validate() []FieldError {
	return ValidateStruct(r)
}

// UpdateServiceRequest is the body of PUT /services/{id}; nil fields are left unchanged
type UpdateServiceRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Budget      *float64 `json:"budget" validate:"omitempty,budget"`
	TelNumber   *string  `json:"telNumber" validate:"omitempty,telnumber"`
	Location    *string  `json:"location" validate:"omitempty,max=2000"`
	Tags        []Tag    `json:"tags" validate:"omitempty,dive,servicetag"`
	Date        *string  `json:"date" validate:"omitempty,flexdate"`
}

// Validate checks field shapes and ranges
func (r *UpdateServiceRequest) Validate() []FieldError {
	return ValidateStruct(r)
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateServiceRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Budget == nil && r.TelNumber == nil &&
		r.Location == nil && r.Tags == nil && r.Date == nil
}

// ServicePatch holds the fields a partial update writes; nil fields keep
// their stored value.
type ServicePatch struct {
	Title       *string
	Description *string
	Budget      *float64
	TelNumber   *string
	Location    *string
	Tags        []Tag
	Date        *time.Time
}

// IsEmpty reports whether the patch writes nothing
func (p ServicePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Budget == nil && p.TelNumber == nil &&
		p.Location == nil && p.Tags == nil && p.Date == nil
}

var errInvalidDate = errors.New("invalid date")

// ParseDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errInvalidDate
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidDate
}

// isDateOnly reports whether s is a bare YYYY-MM-DD date
func isDateOnly(s string) bool {
	_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	return err == nil
}
