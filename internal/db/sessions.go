package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session maps one opaque browser cookie to the upstream bearer token it was
// issued for.
type Session struct {
	Token       string
	Username    string
	BearerToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

func (d *DB) CreateSession(ctx context.Context, session Session) error {
	const query = `
        INSERT INTO sessions (token, username, bearer_token, created_at, expires_at)
        VALUES (?, ?, ?, ?, ?)`
	_, err := d.ExecContext(ctx, query,
		session.Token, session.Username, session.BearerToken,
		session.CreatedAt.UTC(), session.ExpiresAt.UTC())
	return err
}

func (d *DB) GetSession(ctx context.Context, token string) (Session, error) {
	const query = `
        SELECT token, username, bearer_token, created_at, expires_at
        FROM sessions WHERE token = ?`
	var session Session
	err := d.QueryRowContext(ctx, query, token).Scan(
		&session.Token, &session.Username, &session.BearerToken,
		&session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

func (d *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteSessionsByBearer removes every session backed by the given upstream
// token. Used when the upstream answers 401: the bearer is dead no matter
// how many cookies point at it.
func (d *DB) DeleteSessionsByBearer(ctx context.Context, bearerToken string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM sessions WHERE bearer_token = ?`, bearerToken)
	return err
}

// DeleteSessionsForUser removes previous sessions for a username before a
// fresh login.
func (d *DB) DeleteSessionsForUser(ctx context.Context, username string) error {
	_, err := d.ExecContext(ctx, `DELETE FROM sessions WHERE username = ?`, username)
	return err
}

// DeleteExpiredSessions prunes sessions past their expiry; returns the
// number removed.
func (d *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := d.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
