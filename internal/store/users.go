package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateUserIfAbsent registers an account. An existing account with the same
// email is returned unchanged with created=false.
func (s *Store) CreateUserIfAbsent(ctx context.Context, user *models.UserAccount) (bool, error) {
	query := `
		INSERT INTO users (name, email, photo, role, status, applying_for)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, created_time, last_login_time`

	err := s.db.GetContext(ctx, user, query,
		user.Name, user.Email, user.Photo, user.Role, user.Status, user.ApplyingFor)
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := s.GetUserByEmail(ctx, user.Email)
		if getErr != nil {
			return false, getErr
		}
		*user = *existing
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create user: %w", err)
	}
	return true, nil
}

// GetUserByEmail retrieves an account by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	var user models.UserAccount
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

// ListUsersByStatus retrieves accounts in any of the given statuses
func (s *Store) ListUsersByStatus(ctx context.Context, statuses ...string) ([]models.UserAccount, error) {
	users := []models.UserAccount{}
	if len(statuses) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In("SELECT * FROM users WHERE status IN (?) ORDER BY created_time DESC", statuses)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	err = s.db.SelectContext(ctx, &users, query, args...)
	return users, err
}

// UpdateUserApproval sets role and status for a seller application. Accounts
// that never applied to sell are reported as missing.
func (s *Store) UpdateUserApproval(ctx context.Context, email, role, status string) (*models.UserAccount, error) {
	var user models.UserAccount
	err := s.db.GetContext(ctx, &user,
		"UPDATE users SET role = $1, status = $2 WHERE email = $3 AND applying_for = $4 RETURNING *",
		role, status, email, models.ApplyingForSeller)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

// TouchLastLogin records a login time
func (s *Store) TouchLastLogin(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_login_time = NOW() WHERE email = $1", email)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
