package repository

import (
	"context"
	"fmt"

	"duet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, avatar, couple_id,
	google_id, google_access_token, google_refresh_token, created_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Returns ErrDuplicate when the email is taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, avatar, couple_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Avatar, user.CoupleID, user.CreatedAt)
	if err != nil {
		if err = translate(err); err == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) scanOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Avatar, &user.CoupleID,
		&user.GoogleID, &user.GoogleAccessToken, &user.GoogleRefreshToken, &user.CreatedAt,
	)
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByGoogleID retrieves a user by linked Google account id
func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
}

// SetCoupleID sets the user's couple reference. The reference is set once;
// the WHERE clause refuses to overwrite an existing link.
func (r *UserRepository) SetCoupleID(ctx context.Context, userID, coupleID string) error {
	query := `UPDATE users SET couple_id = $1 WHERE id = $2 AND couple_id IS NULL`
	tag, err := r.db.Exec(ctx, query, coupleID, userID)
	if err != nil {
		return fmt.Errorf("failed to set couple id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGoogleTokens stores the Google account linkage and OAuth tokens.
// A nil refresh token keeps the previously stored one.
func (r *UserRepository) UpdateGoogleTokens(ctx context.Context, userID string, googleID, accessToken, refreshToken *string) error {
	query := `
		UPDATE users
		SET google_id = COALESCE($1, google_id),
		    google_access_token = COALESCE($2, google_access_token),
		    google_refresh_token = COALESCE($3, google_refresh_token)
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, googleID, accessToken, refreshToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update google tokens: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
