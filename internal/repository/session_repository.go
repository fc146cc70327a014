package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SessionRepo persists login sessions.  A bearer token is only honoured
// while a session row with the same token exists for its user.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create stores a session row for the user and returns its id.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, token string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token) VALUES (?,?)",
		userID, token)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	return uint64(id), nil
}

// Exists reports whether a session with the token is on file for the user.
func (r *SessionRepo) Exists(ctx context.Context, userID uint64, token string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM sessions WHERE user_id=? AND token=? LIMIT 1",
		userID, token).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("find session: %w", err)
	}
	return true, nil
}

// DeleteByUser removes every session of the user.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id=?", userID)
	return err
}
