package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/server/internal/domain/users"
	"github.com/jackc/pgx/v5"
)

var _ users.Repository = (*UserRepository)(nil)

const userColumns = "id, name, email, password_hash, created_at"

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByULID(ctx context.Context, ulid string) (*users.User, error) {
	queryer := r.queryer()

	return scanUser(queryer.QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE id = $1
`, ulid))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	queryer := r.queryer()

	return scanUser(queryer.QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE email = $1
`, email))
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	queryer := r.queryer()

	return scanUser(queryer.QueryRow(ctx, `
INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING `+userColumns+`
`, params.ID, params.Name, params.Email, params.PasswordHash))
}
