package database

// Atomic batches
//
// SurrealDB transactions are statement blocks, not connection state, so atomic
// work is accumulated in memory and sent as a single query:
//
//	batch := NewAtomicBatch()
//	batch.Add("DELETE service WHERE customer = $user", vars)
//	batch.Add("DELETE $user", vars)
//	batch.Execute(ctx, db) // all or nothing
//
// Variables are namespaced per statement ($user -> $v1_user) so statements
// built independently cannot collide.

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// TxBuilder builds a BEGIN/COMMIT TRANSACTION block with per-statement variable namespacing.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add appends a statement, renaming its variables to unique names.
// It returns the mapping from original to namespaced variable names.
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	mapping := make(map[string]string, len(names))
	for _, name := range names {
		tb.varCounter++
		renamed := fmt.Sprintf("v%d_%s", tb.varCounter, name)

		pattern := regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\b`)
		query = pattern.ReplaceAllLiteralString(query, "$"+renamed)

		tb.vars[renamed] = vars[name]
		mapping[name] = renamed
	}

	tb.statements = append(tb.statements, query)
	return mapping
}

// Len returns the number of statements added so far
func (tb *TxBuilder) Len() int {
	return len(tb.statements)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		stmt = strings.TrimSpace(stmt)
		sb.WriteString(stmt)
		if !strings.HasSuffix(stmt, ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// ExecuteTransaction executes a transaction built with TxBuilder
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}

// AtomicBatch collects statements that must succeed or fail together
type AtomicBatch struct {
	queries []batchQuery
}

type batchQuery struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		queries: make([]batchQuery, 0),
	}
}

// Add adds a query to the batch
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.queries = append(ab.queries, batchQuery{query: query, vars: vars})
	return ab
}

// Execute runs all queries as a single transaction and returns the per-statement results
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) ([]interface{}, error) {
	if len(ab.queries) == 0 {
		return nil, nil
	}

	tb := NewTxBuilder()
	for _, q := range ab.queries {
		tb.Add(q.query, q.vars)
	}

	return ExecuteTransaction(ctx, db, tb)
}

// Len returns the number of queries in the batch
func (ab *AtomicBatch) Len() int {
	return len(ab.queries)
}
