// Package directory resolves user identities for display names, email
// delivery and staff fan-out. The feedback core never authenticates users.
package directory

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/feedback-service/internal/domain"
	"github.com/spec-kit/feedback-service/internal/persistence"
)

// Directory resolves a user id to identity details and "all staff" to the
// fan-out recipient list.
type Directory interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListStaff(ctx context.Context) ([]domain.User, error)
}

type pgDirectory struct {
	pool *pgxpool.Pool
}

// NewPgDirectory returns a Postgres-backed directory over the users table.
func NewPgDirectory(pool *pgxpool.Pool) Directory {
	return &pgDirectory{pool: pool}
}

func (d *pgDirectory) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id, name, email, role, created_at FROM users WHERE id=$1`
	var user domain.User
	var role string
	if err := persistence.QuerierFrom(ctx, d.pool).QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = domain.RoleFromIdentity(role)
	return &user, nil
}

func (d *pgDirectory) ListStaff(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT id, name, email, role, created_at FROM users WHERE role <> 'client' ORDER BY name`
	rows, err := persistence.QuerierFrom(ctx, d.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		var role string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &role, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.Role = domain.RoleFromIdentity(role)
		result = append(result, user)
	}
	return result, rows.Err()
}
