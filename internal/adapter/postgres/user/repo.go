// Package user implements the User repository using PostgreSQL.
// The catalog only reads users through the identity gate; the single write
// here exists so that a fresh login can materialize an account row.
package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/memecached/memecached-web/internal/adapter/postgres"
	"github.com/memecached/memecached-web/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const (
	getByIDSQL = `
SELECT id, email, name, role, status, created_at
FROM users WHERE id = $1`

	getByEmailSQL = `
SELECT id, email, name, role, status, created_at
FROM users WHERE email = $1`

	createSQL = `
INSERT INTO users (email, name)
VALUES ($1, $2)
RETURNING id, email, name, role, status, created_at`

	updateStatusSQL = `
UPDATE users SET status = $2
WHERE id = $1
RETURNING id, email, name, role, status, created_at`
)

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, getByIDSQL, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &u, nil
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, getByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}

	return &u, nil
}

// UpdateStatus moves a user to the given account status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, updateStatusSQL, id, status).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	return &u, nil
}

// Create inserts a new user in the default pending state.
// Returns domain.ErrAlreadyExists on a duplicate email.
func (r *Repo) Create(ctx context.Context, email, name string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, createSQL, email, name).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}

	return &u, nil
}
