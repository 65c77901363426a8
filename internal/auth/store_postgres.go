package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"sajag/internal/visibility"
	id "sajag/pkg/domain"
	"sajag/pkg/platform/sentinel"
)

// PostgresUserStore persists users in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE users (
//	    id            UUID PRIMARY KEY,
//	    email         TEXT NOT NULL UNIQUE,
//	    name          TEXT NOT NULL DEFAULT '',
//	    password_hash BYTEA NOT NULL,
//	    role          TEXT NOT NULL,
//	    states        TEXT[] NOT NULL DEFAULT '{}',
//	    partner_ids   TEXT[] NOT NULL DEFAULT '{}',
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, email, name, password_hash, role, states, partner_ids, created_at, updated_at`

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, userID.String()))
}

func (s *PostgresUserStore) Save(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, states, partner_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			states = EXCLUDED.states,
			partner_ids = EXCLUDED.partner_ids,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(), user.Email, user.Name, user.PasswordHash, string(user.Role),
		pq.Array(user.States), pq.Array(user.PartnerIDs), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u    User
		uid  string
		role string
	)
	err := row.Scan(
		&uid, &u.Email, &u.Name, &u.PasswordHash, &role,
		pq.Array(&u.States), pq.Array(&u.PartnerIDs), &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	parsed, err := id.ParseUserID(uid)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = parsed
	u.Role = visibility.Role(role)
	return &u, nil
}
