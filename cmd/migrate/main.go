package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/forgo/marketplace/internal/config"
	"github.com/forgo/marketplace/internal/database"
)

type applied struct {
	File     string `json:"file"`
	Duration string `json:"duration,omitempty"`
}

func main() {
	dir := flag.String("dir", "./migrations", "Directory containing .surql migration files")
	dryRun := flag.Bool("dry-run", false, "List migrations without applying them")
	timeout := flag.Duration("timeout", time.Minute, "Timeout for the whole run")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	files, err := migrationFiles(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading migrations: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No .surql files in %s\n", *dir)
		os.Exit(1)
	}

	var results []applied
	if *dryRun {
		for _, f := range files {
			results = append(results, applied{File: filepath.Base(f)})
		}
	} else {
		results, err = apply(files, *timeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"dry_run":    *dryRun,
			"migrations": results,
		})
		return
	}

	if *dryRun {
		fmt.Println("Pending Migrations")
		fmt.Println("==================")
	} else {
		fmt.Println("Migrations Applied")
		fmt.Println("==================")
	}
	for _, r := range results {
		if r.Duration != "" {
			fmt.Printf("  %-40s %s\n", r.File, r.Duration)
		} else {
			fmt.Printf("  %s\n", r.File)
		}
	}
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".surql") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func apply(files []string, timeout time.Duration) ([]applied, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connecting to %s:%s: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	defer func() { _ = db.Close() }()

	results := make([]applied, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return results, err
		}
		start := time.Now()
		if err := db.Execute(ctx, string(content), nil); err != nil {
			return results, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		results = append(results, applied{
			File:     filepath.Base(f),
			Duration: time.Since(start).Round(time.Millisecond).String(),
		})
	}
	return results, nil
}
