// Package helpers provides common test utilities for integration testing.
//
// This package includes HTTP request builders, envelope decoders and
// database assertion helpers for testing API endpoints.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgo/marketplace/internal/database"
)

// ============================================================================
// HTTP Request Helpers
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	rawBody string
	headers map[string]string
	cookies []*http.Cookie
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithRawBody sets the request body verbatim
func (rb *RequestBuilder) WithRawBody(body string) *RequestBuilder {
	rb.rawBody = body
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithCookie attaches a cookie to the request
func (rb *RequestBuilder) WithCookie(c *http.Cookie) *RequestBuilder {
	rb.cookies = append(rb.cookies, c)
	return rb
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	switch {
	case rb.body != nil:
		bodyBytes, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	case rb.rawBody != "":
		bodyReader = strings.NewReader(rb.rawBody)
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	for _, c := range rb.cookies {
		req.AddCookie(c)
	}
	return req
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// Envelope is the decoded form of every JSON response
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// DecodeEnvelope decodes the response envelope
func DecodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v. Body: %s", err, resp.Body.String())
	}
	return env
}

// DecodeData decodes the envelope's data field into v
func DecodeData(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data: %v. Body: %s", err, resp.Body.String())
	}
}

// AssertFailure checks a failure envelope with the given status and message
func AssertFailure(t *testing.T, resp *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	AssertStatus(t, resp, status)
	env := DecodeEnvelope(t, resp)
	if env.Success {
		t.Errorf("expected success=false. Body: %s", resp.Body.String())
	}
	if env.Message != message {
		t.Errorf("expected message %q, got %q", message, env.Message)
	}
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// AssertRecordExists checks that a record exists in the database
func AssertRecordExists(t *testing.T, db database.Database, table, id string) {
	t.Helper()
	if !recordExists(t, db, table, id) {
		t.Errorf("expected record %s to exist, but it doesn't", id)
	}
}

// AssertRecordNotExists checks that a record does not exist
func AssertRecordNotExists(t *testing.T, db database.Database, table, id string) {
	t.Helper()
	if recordExists(t, db, table, id) {
		t.Errorf("expected record %s to not exist, but it does", id)
	}
}

func recordExists(t *testing.T, db database.Database, table, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := strings.TrimPrefix(id, table+":")
	results, err := db.Query(ctx, "SELECT * FROM type::thing($table, $key)", map[string]interface{}{
		"table": table,
		"key":   key,
	})
	if err != nil {
		t.Fatalf("failed to query for record: %v", err)
	}
	return hasResults(results)
}

// hasResults checks if SurrealDB query returned any results
func hasResults(results []interface{}) bool {
	if len(results) == 0 {
		return false
	}
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return false
	}
	switch v := resp["result"].(type) {
	case []interface{}:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}

// ============================================================================
// Utility Helpers
// ============================================================================

// StringPtr returns a pointer to the string
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to the float64
func Float64Ptr(f float64) *float64 {
	return &f
}

// MustParseTime parses a time string or fails the test
func MustParseTime(t *testing.T, layout, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(layout, value)
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}
