package repository

import (
	"context"
	"fmt"
	"time"

	"duet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const coupleColumns = `id, partner1_id, partner2_id, secret_code, next_meeting_date, created_at`

// CoupleRepository handles database operations for couples
type CoupleRepository struct {
	db *pgxpool.Pool
}

// NewCoupleRepository creates a new couple repository
func NewCoupleRepository(db *pgxpool.Pool) *CoupleRepository {
	return &CoupleRepository{db: db}
}

// Create creates a new couple with only the first partner slot populated.
// Returns ErrDuplicate when the secret code collides with an existing one.
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	query := `
		INSERT INTO couples (id, partner1_id, secret_code, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, couple.ID, couple.Partner1ID, couple.SecretCode, couple.CreatedAt)
	if err != nil {
		if err = translate(err); err == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create couple: %w", err)
	}
	return nil
}

func (r *CoupleRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Couple, error) {
	var couple models.Couple
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&couple.ID, &couple.Partner1ID, &couple.Partner2ID,
		&couple.SecretCode, &couple.NextMeetingDate, &couple.CreatedAt,
	)
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	return &couple, nil
}

// GetByID retrieves a couple by ID
func (r *CoupleRepository) GetByID(ctx context.Context, id string) (*models.Couple, error) {
	return r.scanOne(ctx, `SELECT `+coupleColumns+` FROM couples WHERE id = $1`, id)
}

// GetBySecretCode retrieves a couple by its secret code.
// Codes are stored uppercase; callers normalize before lookup.
func (r *CoupleRepository) GetBySecretCode(ctx context.Context, code string) (*models.Couple, error) {
	return r.scanOne(ctx, `SELECT `+coupleColumns+` FROM couples WHERE secret_code = $1`, code)
}

// SecretCodeExists checks if a secret code is already in use
func (r *CoupleRepository) SecretCodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM couples WHERE secret_code = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check secret code existence: %w", err)
	}
	return exists, nil
}

// FillSecondSlot atomically claims the second partner slot. The conditional
// WHERE makes the fill linearizable per couple: of two concurrent joins
// exactly one updates a row, the other sees zero rows affected and gets
// ErrNotFound so the caller can re-read and distinguish "full" from "gone".
func (r *CoupleRepository) FillSecondSlot(ctx context.Context, coupleID, userID string) error {
	query := `UPDATE couples SET partner2_id = $1 WHERE id = $2 AND partner2_id IS NULL`
	tag, err := r.db.Exec(ctx, query, userID, coupleID)
	if err != nil {
		return fmt.Errorf("failed to fill second slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateNextMeeting sets or clears the couple's next meeting date
func (r *CoupleRepository) UpdateNextMeeting(ctx context.Context, coupleID string, date *time.Time) error {
	query := `UPDATE couples SET next_meeting_date = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, date, coupleID)
	if err != nil {
		return fmt.Errorf("failed to update next meeting date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
