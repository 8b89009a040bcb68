// Package repository implements the data access layer for the marketplace API.
//
// UserRepository, ServiceRepository and SessionRepository store records in
// SurrealDB; RedisSessionStore is an alternative session store selected when
// REDIS_ADDR is set.
//
// # Conventions
//
//   - Constructors (NewXxxRepository) accept a database.Database.
//   - Lookups return (nil, nil) for a missing record; the service layer turns
//     that into its own not-found error.
//   - Queries are parameterized with $variables and record ids go through
//     type::thing($table, $key).
//   - Stored field names are snake_case (customer, created_on, tel_number)
//     and are mapped to model structs by hand.
//
// # Cascades
//
// DeleteCascade and DeleteAllCascade remove a user together with its services
// and sessions in a single database.AtomicBatch, so a failed statement leaves
// nothing half-deleted.
//
// # Filtering
//
// buildServiceFilter renders a model.ServiceFilter as a WHERE clause
// where every present criterion is ANDed:
//
//	SELECT * FROM service WHERE tags CONTAINSALL $tags AND budget >= $min_budget ORDER BY date ASC
package repository
