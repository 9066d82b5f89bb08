package repository

import (
	"context"
	"errors"
	"fmt"

	"quickchat/internal/domain/user"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO users (id, email, full_name, password_hash, bio, avatar_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, u.ID, u.Email, u.FullName, u.PasswordHash, u.Bio, u.AvatarURL, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return quickchat_errors.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, email, full_name, password_hash, bio, avatar_url, created_at, updated_at
        FROM users
        WHERE id = $1
    `, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, email, full_name, password_hash, bio, avatar_url, created_at, updated_at
        FROM users
        WHERE email = $1
    `, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	tag, err := r.pool.Exec(ctx, `
        UPDATE users
        SET full_name = $2, bio = $3, avatar_url = $4, updated_at = $5
        WHERE id = $1
    `, u.ID, u.FullName, u.Bio, u.AvatarURL, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return quickchat_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListOthers(ctx context.Context, callerID uuid.UUID) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, email, full_name, password_hash, bio, avatar_url, created_at, updated_at
        FROM users
        WHERE id <> $1
        ORDER BY full_name, created_at
    `, callerID)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, quickchat_errors.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
