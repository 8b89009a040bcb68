package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// recordKey extracts the record key from id for table. It accepts either
// "table:key" or a bare key; ids of another table are reported as not ok.
func recordKey(table, id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	if i := strings.Index(id, ":"); i >= 0 {
		if id[:i] != table {
			return "", false
		}
		id = id[i+1:]
	}
	id = strings.TrimSuffix(strings.TrimPrefix(id, "⟨"), "⟩")
	if id == "" {
		return "", false
	}
	return id, true
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		tb := getString(v, "tb")
		if tb == "" {
			tb = getString(v, "Table")
		}
		idPart := ""
		if raw, ok := v["id"]; ok {
			idPart = extractIDValue(raw)
		} else if raw, ok := v["ID"]; ok {
			idPart = extractIDValue(raw)
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		return idPart
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// statementRecords returns the records of every statement in a Query response, in order.
func statementRecords(results []interface{}) [][]map[string]interface{} {
	out := make([][]map[string]interface{}, 0, len(results))
	for _, r := range results {
		resp, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		var records []map[string]interface{}
		switch res := resp["result"].(type) {
		case []interface{}:
			for _, item := range res {
				if m, ok := item.(map[string]interface{}); ok {
					records = append(records, m)
				}
			}
		case map[string]interface{}:
			records = append(records, res)
		}
		out = append(out, records)
	}
	return out
}

// firstStatementRecords returns the records of the first statement, if any
func firstStatementRecords(results []interface{}) []map[string]interface{} {
	stmts := statementRecords(results)
	if len(stmts) == 0 {
		return nil
	}
	return stmts[0]
}

// countTableRecords counts records belonging to table across all statements
func countTableRecords(results []interface{}, table string) int {
	n := 0
	for _, records := range statementRecords(results) {
		for _, rec := range records {
			if strings.HasPrefix(convertSurrealID(rec["id"]), table+":") {
				n++
			}
		}
	}
	return n
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getFloat extracts a numeric value from a map as float64
func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case int32:
		return float64(v)
	case uint32:
		return float64(v)
	}
	return 0
}

// getTime extracts a time value from a map, zero when absent
func getTime(m map[string]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return v.UTC()
	case models.CustomDateTime:
		return v.Time.UTC()
	case *models.CustomDateTime:
		if v != nil {
			return v.Time.UTC()
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// getStringSlice extracts a string slice from a map; never nil
func getStringSlice(m map[string]interface{}, key string) []string {
	result := []string{}
	if v, ok := m[key].([]interface{}); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
	}
	return result
}

// formatTime renders t for a <datetime> cast in SurrealQL
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
