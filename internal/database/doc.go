// Package database provides database connectivity for the marketplace API.
//
// # Connection Management
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "marketplace",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "root",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//	defer db.Close()
//
// # Error Types
//
//   - ErrNotFound: Record does not exist
//   - ErrDuplicate: Unique index violation
//   - ErrConstraint: Field TYPE/ASSERT rejected the write
//   - ErrConnection: Database connection failed
//   - ErrQuery: Any other statement failure
//
// Query returns one map per statement with "status" and "result" keys;
// repositories unwrap these themselves.
package database
