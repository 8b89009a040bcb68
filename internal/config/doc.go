// Package config manages application configuration for the marketplace API.
//
// Configuration is read from environment variables. An optional .env file in
// the working directory is loaded first; real environment variables take
// precedence over it.
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS, client URL)
//   - DatabaseConfig: SurrealDB connection settings
//   - SessionConfig: cookie signing secret and session lifetimes
//   - OAuthConfig: Google, Facebook and LINE client credentials
//   - RedisConfig: optional Redis session store
//   - RateLimitConfig: per-client request limits
//   - JobsConfig: background job intervals
//
// # Environment Variables
//
//	SERVER_PORT            - HTTP server port (default: 8080)
//	SERVER_ENV             - development | production | test
//	CLIENT_URL             - frontend URL used for login redirects
//	DB_HOST, DB_PORT       - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE, DB_USER, DB_PASSWORD
//	SESSION_SECRET         - cookie signing secret (>= 32 chars in production)
//	GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URL (same for FACEBOOK_, LINE_)
//	REDIS_ADDR             - enables the Redis session store
package config
