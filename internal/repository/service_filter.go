package repository

import (
	"strings"

	"github.com/forgo/marketplace/internal/model"
)

// buildServiceFilter renders f as a SurrealQL WHERE clause (without the WHERE
// keyword) and its variables. Each present criterion adds one predicate and
// predicates are ANDed; an empty filter yields an empty clause that matches
// every service.
func buildServiceFilter(f model.ServiceFilter) (string, map[string]interface{}) {
	var preds []string
	vars := map[string]interface{}{}

	if f.Title != "" {
		preds = append(preds, "string::lowercase(title) CONTAINS string::lowercase($title)")
		vars["title"] = f.Title
	}
	if len(f.Tags) > 0 {
		tags := make([]string, len(f.Tags))
		for i, t := range f.Tags {
			tags[i] = string(t)
		}
		preds = append(preds, "tags CONTAINSALL $tags")
		vars["tags"] = tags
	}
	if f.MinBudget != nil {
		preds = append(preds, "budget >= $min_budget")
		vars["min_budget"] = *f.MinBudget
	}
	if f.MaxBudget != nil {
		preds = append(preds, "budget <= $max_budget")
		vars["max_budget"] = *f.MaxBudget
	}
	if f.StartDate != nil {
		preds = append(preds, "date >= <datetime>$start_date")
		vars["start_date"] = formatTime(*f.StartDate)
	}
	if f.EndDate != nil {
		preds = append(preds, "date <= <datetime>$end_date")
		vars["end_date"] = formatTime(*f.EndDate)
	}

	return strings.Join(preds, " AND "), vars
}
