// Package model defines the domain types of the marketplace API.
//
// # Entities
//
//   - User: an account whose Persona is either Customer or Provider.
//     Only Provider carries a ProviderProfile.
//   - Service: a job posting owned by one customer (CustomerID).
//   - Session: a server-side login session keyed by a token hash.
//
// # Requests
//
// Create/Update request types carry go-playground/validator struct tags and a
// Validate method returning []FieldError. Update requests use pointer fields so
// that absent fields are left unchanged.
//
// # Responses
//
// Every endpoint answers with an Envelope ({success, data|message}); failures
// are built with the NewXxxError constructors.
//
// # Filtering
//
// ParseServiceFilter turns the query string of GET /services/filter into a
// ServiceFilter; the repository layer renders it as a SurrealQL WHERE clause.
package model
