package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/staybook/internal/persistence"
)

// SessionRepository persists authentication sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository builds a repository over the shared handle.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a new session.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO sessions (id, account_id, token, expires_at, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.AccountID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatNullableTime(session.RevokedAt),
	)
	return mapError(err)
}

// GetSessionByToken retrieves a session by its opaque token.
func (r *SessionRepository) GetSessionByToken(ctx context.Context, token string) (persistence.Session, error) {
	row := r.db.db.QueryRowContext(ctx, `
		SELECT id, account_id, token, expires_at, created_at, revoked_at
		FROM sessions WHERE token = ?`, token)

	var session persistence.Session
	var expiresAt, createdAt string
	var revokedAt sql.NullString
	if err := row.Scan(&session.ID, &session.AccountID, &session.Token, &expiresAt, &createdAt, &revokedAt); err != nil {
		return persistence.Session{}, mapError(err)
	}
	session.ExpiresAt = parseTime(expiresAt)
	session.CreatedAt = parseTime(createdAt)
	session.RevokedAt = parseNullableTime(revokedAt)
	return session, nil
}

// RevokeSession stamps a session as revoked at the given instant.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, at time.Time) error {
	result, err := r.db.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL`,
		formatTime(at),
		token,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// DeleteExpiredSessions removes sessions whose expiry precedes the cutoff and
// returns how many were pruned.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}
