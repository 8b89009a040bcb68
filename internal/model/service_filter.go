package model

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ServiceFilter holds the optional criteria of GET /services/filter.
// A nil or empty field means the criterion is absent; the zero value matches every service.
type ServiceFilter struct {
	Title     string
	Tags      []Tag
	MinBudget *float64
	MaxBudget *float64
	StartDate *time.Time
	EndDate   *time.Time
}

// IsEmpty reports whether no criterion is set
func (f ServiceFilter) IsEmpty() bool {
	return f.Title == "" && len(f.Tags) == 0 && f.MinBudget == nil && f.MaxBudget == nil &&
		f.StartDate == nil && f.EndDate == nil
}

// ParseServiceFilter reads the filter criteria from a query string.
//
// Budgets that are not finite numbers are ignored rather than treated as zero.
// Dates must be RFC 3339 or YYYY-MM-DD; anything else is ErrInvalidDateFilter.
// A date-only endDate covers that whole day.
func ParseServiceFilter(q url.Values) (ServiceFilter, error) {
	var f ServiceFilter

	f.Title = strings.TrimSpace(q.Get("title"))

	if raw := q.Get("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				f.Tags = append(f.Tags, Tag(tag))
			}
		}
		f.Tags = UniqueTags(f.Tags)
	}

	f.MinBudget = parseBound(q.Get("minBudget"))
	f.MaxBudget = parseBound(q.Get("maxBudget"))

	if raw := q.Get("startDate"); strings.TrimSpace(raw) != "" {
		t, err := ParseDate(raw)
		if err != nil {
			return ServiceFilter{}, fmt.Errorf("%w: startDate %q", ErrInvalidDateFilter, raw)
		}
		f.StartDate = &t
	}

	if raw := q.Get("endDate"); strings.TrimSpace(raw) != "" {
		t, err := ParseDate(raw)
		if err != nil {
			return ServiceFilter{}, fmt.Errorf("%w: endDate %q", ErrInvalidDateFilter, raw)
		}
		if isDateOnly(raw) {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.EndDate = &t
	}

	return f, nil
}

func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
