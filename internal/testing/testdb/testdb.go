// Package testdb provides test database utilities for integration testing.
//
// Each TestDB runs real queries against a real SurrealDB instance with the
// migrations applied, so tests exercise the schema's field assertions and
// indexes. The instance is taken from TEST_DB_HOST when set; otherwise a
// surrealdb container is started once per test binary with testcontainers.
// Tests are skipped when neither is available.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    defer tdb.Close()
//
//	    result, err := tdb.DB.Query(tdb.Ctx(), "SELECT * FROM user", nil)
//	}
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/forgo/marketplace/internal/database"
)

const surrealImage = "surrealdb/surrealdb:v2.1.4"

// TestDB provides an isolated database environment for testing.
// Each TestDB instance gets a unique namespace to ensure test isolation.
type TestDB struct {
	DB        database.Database
	Namespace string
	Database  string
	t         *testing.T
}

var (
	migrationOnce sync.Once
	migrations    []string
	migrationErr  error

	serverOnce sync.Once
	serverCfg  database.Config
	serverErr  error

	counterMu sync.Mutex
	counter   int64
)

// getTestConfig returns database config from the environment, or from a
// container started on first use
func getTestConfig() (database.Config, error) {
	serverOnce.Do(func() {
		user := envOr("TEST_DB_USER", "root")
		password := envOr("TEST_DB_PASSWORD", "root")

		if host := os.Getenv("TEST_DB_HOST"); host != "" {
			serverCfg = database.Config{
				Host:     host,
				Port:     envOr("TEST_DB_PORT", "8000"),
				User:     user,
				Password: password,
			}
			return
		}

		serverCfg, serverErr = startContainer(user, password)
	})
	return serverCfg, serverErr
}

func startContainer(user, password string) (database.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        surrealImage,
		ExposedPorts: []string{"8000/tcp"},
		Cmd:          []string{"start", "--user", user, "--pass", password, "memory"},
		WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(time.Minute),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return database.Config{}, fmt.Errorf("starting surrealdb container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return database.Config{}, err
	}
	port, err := c.MappedPort(ctx, "8000/tcp")
	if err != nil {
		return database.Config{}, err
	}

	return database.Config{
		Host:     host,
		Port:     port.Port(),
		User:     user,
		Password: password,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// loadMigrations reads all migration files in order
func loadMigrations() ([]string, error) {
	migrationOnce.Do(func() {
		paths := []string{
			"migrations",
			"../migrations",
			"../../migrations",
			"../../../migrations",
			"../../../../migrations",
		}

		var migrationDir string
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				migrationDir = p
				break
			}
		}
		if migrationDir == "" {
			if root := os.Getenv("MARKETPLACE_ROOT"); root != "" {
				migrationDir = filepath.Join(root, "migrations")
			}
		}
		if migrationDir == "" {
			migrationErr = fmt.Errorf("could not find migrations directory")
			return
		}

		entries, err := os.ReadDir(migrationDir)
		if err != nil {
			migrationErr = fmt.Errorf("reading migrations dir: %w", err)
			return
		}

		var files []string
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".surql") {
				files = append(files, e.Name())
			}
		}
		sort.Strings(files)

		for _, name := range files {
			content, err := os.ReadFile(filepath.Join(migrationDir, name))
			if err != nil {
				migrationErr = fmt.Errorf("reading %s: %w", name, err)
				return
			}
			migrations = append(migrations, string(content))
		}
	})

	return migrations, migrationErr
}

// New creates a new isolated test database with migrations applied.
// The test is skipped when no SurrealDB instance can be reached or started.
func New(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("testdb: skipping integration test in -short mode")
	}

	cfg, err := getTestConfig()
	if err != nil {
		t.Skipf("testdb: no database available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	db := database.NewSurrealDB(cfg)
	if err := db.Connect(ctx); err != nil {
		t.Skipf("testdb: failed to connect: %v", err)
	}

	tdb := &TestDB{
		DB:        db,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		t:         t,
	}

	migs, err := loadMigrations()
	if err != nil {
		db.Close()
		t.Fatalf("testdb: failed to load migrations: %v", err)
	}
	for i, mig := range migs {
		if err := db.Execute(ctx, mig, nil); err != nil {
			db.Close()
			t.Fatalf("testdb: migration %d failed: %v", i+1, err)
		}
	}

	return tdb
}

// Close removes the test namespace and closes the connection.
func (tdb *TestDB) Close() {
	if tdb.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = tdb.DB.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Namespace), nil)
	tdb.DB.Close()
}

// Reset clears all marketplace tables while preserving schema.
func (tdb *TestDB) Reset(t *testing.T) {
	t.Helper()

	for _, table := range []string{"service", "session", "user"} {
		if err := tdb.DB.Execute(tdb.Ctx(), "DELETE "+table, nil); err != nil {
			t.Fatalf("testdb: failed to clear table %s: %v", table, err)
		}
	}
}

// Ctx returns a context with a reasonable timeout for test operations.
func (tdb *TestDB) Ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}

// MustExec executes a query and fails the test on error.
func (tdb *TestDB) MustExec(query string, vars map[string]interface{}) {
	tdb.t.Helper()
	if err := tdb.DB.Execute(tdb.Ctx(), query, vars); err != nil {
		tdb.t.Fatalf("testdb: exec failed: %v\nQuery: %s", err, query)
	}
}

// MustQuery executes a query and returns results, failing the test on error.
func (tdb *TestDB) MustQuery(query string, vars map[string]interface{}) []interface{} {
	tdb.t.Helper()
	results, err := tdb.DB.Query(tdb.Ctx(), query, vars)
	if err != nil {
		tdb.t.Fatalf("testdb: query failed: %v\nQuery: %s", err, query)
	}
	return results
}
