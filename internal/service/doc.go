// Package service implements the business logic layer for the marketplace API.
//
// The service package holds the rules that sit between HTTP handlers and
// data access: request validation, the customer/provider persona rules,
// cascade deletes, social login and session handling.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, so tests can substitute
// in-memory implementations and the session store can be backed by either
// SurrealDB or Redis.
//
// # Error Handling
//
// Services return the sentinel errors declared in errors.go. Validation
// failures are returned as *ValidationError, which matches ErrValidation
// with errors.Is and carries the individual field problems for logging.
//
// # Example Usage
//
//	catalog := NewCatalogService(CatalogServiceConfig{
//	    ServiceRepo: serviceRepository,
//	    UserRepo:    userRepository,
//	})
//	svc, err := catalog.Create(ctx, model.CreateServiceRequest{...})
package service
