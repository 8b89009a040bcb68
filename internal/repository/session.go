package repository

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/model"
)

// SessionRepository stores login sessions in SurrealDB
type SessionRepository struct {
	db database.Database
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.Database) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a session
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	userKey, ok := recordKey("user", s.UserID)
	if !ok {
		return database.ErrConstraint
	}

	query := `
		CREATE session SET
			token_hash = $token_hash,
			user = type::thing("user", $user_key),
			expires_at = <datetime>$expires_at,
			created_on = time::now()
	`
	vars := map[string]interface{}{
		"token_hash": s.TokenHash,
		"user_key":   userKey,
		"expires_at": formatTime(s.ExpiresAt),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	records := firstStatementRecords(result)
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created := parseSession(records[0])
	s.ID = created.ID
	s.CreatedAt = created.CreatedAt
	return nil
}

// Get returns the unexpired session for tokenHash; nil when none exists
func (r *SessionRepository) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	query := `SELECT * FROM session WHERE token_hash = $token_hash AND expires_at > time::now() LIMIT 1`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"token_hash": tokenHash})
	if err != nil {
		return nil, err
	}
	records := firstStatementRecords(result)
	if len(records) == 0 {
		return nil, nil
	}
	return parseSession(records[0]), nil
}

// Delete removes the session for tokenHash
func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	return r.db.Execute(ctx, `DELETE session WHERE token_hash = $token_hash`,
		map[string]interface{}{"token_hash": tokenHash})
}

// DeleteExpired removes sessions that expired before now and returns how many
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := r.db.Query(ctx, `DELETE session WHERE expires_at <= <datetime>$now RETURN BEFORE`,
		map[string]interface{}{"now": formatTime(now)})
	if err != nil {
		return 0, err
	}
	return len(firstStatementRecords(result)), nil
}

func parseSession(data map[string]interface{}) *model.Session {
	return &model.Session{
		ID:        convertSurrealID(data["id"]),
		TokenHash: getString(data, "token_hash"),
		UserID:    convertSurrealID(data["user"]),
		ExpiresAt: getTime(data, "expires_at"),
		CreatedAt: getTime(data, "created_on"),
	}
}
