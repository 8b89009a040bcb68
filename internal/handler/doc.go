// Package handler provides HTTP request handlers for the marketplace API.
//
// Each handler struct wraps the services for one area (users, services,
// auth, health) and registers its routes on a ServeMux with method patterns:
//
//	userHandler := NewUserHandler(userService)
//	userHandler.RegisterRoutes(mux)
//
// # Response Format
//
// Every response uses the same envelope:
//
//	{"success": true, "data": ..., "message": "..."}
//	{"success": false, "message": "Service not found"}
//
// Service errors are mapped by MapServiceError. Missing records give 404,
// validation and constraint failures give 400 with the operation message,
// and everything else gives 500. Field-level validation detail is logged,
// never returned.
package handler
