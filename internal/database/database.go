// Package database provides the database abstraction layer for the marketplace API.
//
// The Database interface abstracts SurrealDB operations:
//   - Query: Returns every statement result (for SELECT queries returning lists)
//   - QueryOne: Returns a single record (for SELECT by ID)
//   - Execute: No return value (for CREATE/UPDATE/DELETE mutations)
//
// Multi-statement atomic work goes through AtomicBatch (see transaction.go),
// which wraps the statements in BEGIN/COMMIT TRANSACTION and sends them as one
// query.
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrConstraint) {
//	    // A field ASSERT rejected the write
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique index violation.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConstraint indicates a field definition (TYPE or ASSERT) rejected a write.
	ErrConstraint = errors.New("constraint violation")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
