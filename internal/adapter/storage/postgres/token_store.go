package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS dashboard_sessions (
	slot       TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// TokenStore implements ports.TokenStore as one row of dashboard_sessions.
type TokenStore struct {
	pool Pool
	slot string
}

// NewTokenStore creates a token store for the named slot.
func NewTokenStore(pool Pool, slot string) *TokenStore {
	return &TokenStore{pool: pool, slot: slot}
}

// EnsureSchema creates the sessions table if it does not exist.
func (s *TokenStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSessionsTable); err != nil {
		return fmt.Errorf("create dashboard_sessions: %w", err)
	}
	return nil
}

// Load returns the stored token, or "" if the slot has no row.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	query := `SELECT token FROM dashboard_sessions WHERE slot = $1`

	var token string
	if err := s.pool.QueryRow(ctx, query, s.slot).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get session token: %w", err)
	}
	return token, nil
}

// Save upserts the token.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	query := `INSERT INTO dashboard_sessions (slot, token, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at`

	if _, err := s.pool.Exec(ctx, query, s.slot, token); err != nil {
		return fmt.Errorf("upsert session token: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Name identifies the slot in health reports.
func (s *TokenStore) Name() string {
	return "postgresql"
}

// Remove deletes the slot's row. A missing row is not an error.
func (s *TokenStore) Remove(ctx context.Context) error {
	query := `DELETE FROM dashboard_sessions WHERE slot = $1`

	if _, err := s.pool.Exec(ctx, query, s.slot); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}
