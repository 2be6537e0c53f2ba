package repository

import (
	"context"
	"fmt"

	"duet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const momentColumns = `id, couple_id, title, description, date, image, icon_type, created_at`

// TimelineRepository handles database operations for timeline moments
type TimelineRepository struct {
	db *pgxpool.Pool
}

// NewTimelineRepository creates a new timeline repository
func NewTimelineRepository(db *pgxpool.Pool) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// Create creates a new timeline moment
func (r *TimelineRepository) Create(ctx context.Context, moment *models.TimelineMoment) error {
	query := `
		INSERT INTO timeline_moments (id, couple_id, title, description, date, image, icon_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		moment.ID, moment.CoupleID, moment.Title, moment.Description,
		moment.Date, moment.Image, moment.IconType, moment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create moment: %w", err)
	}
	return nil
}

// GetByID retrieves a timeline moment by ID
func (r *TimelineRepository) GetByID(ctx context.Context, id string) (*models.TimelineMoment, error) {
	query := `SELECT ` + momentColumns + ` FROM timeline_moments WHERE id = $1`
	var moment models.TimelineMoment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&moment.ID, &moment.CoupleID, &moment.Title, &moment.Description,
		&moment.Date, &moment.Image, &moment.IconType, &moment.CreatedAt,
	)
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get moment: %w", err)
	}
	return &moment, nil
}

// ListByCoupleID retrieves a couple's moments in chronological order
func (r *TimelineRepository) ListByCoupleID(ctx context.Context, coupleID string) ([]*models.TimelineMoment, error) {
	query := `
		SELECT ` + momentColumns + `
		FROM timeline_moments
		WHERE couple_id = $1
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, coupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moments: %w", err)
	}
	defer rows.Close()

	var moments []*models.TimelineMoment
	for rows.Next() {
		var moment models.TimelineMoment
		err := rows.Scan(
			&moment.ID, &moment.CoupleID, &moment.Title, &moment.Description,
			&moment.Date, &moment.Image, &moment.IconType, &moment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan moment: %w", err)
		}
		moments = append(moments, &moment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moments: %w", err)
	}
	return moments, nil
}

// Update overwrites the mutable fields of a moment
func (r *TimelineRepository) Update(ctx context.Context, moment *models.TimelineMoment) error {
	query := `
		UPDATE timeline_moments
		SET title = $1, description = $2, date = $3, image = $4, icon_type = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query,
		moment.Title, moment.Description, moment.Date, moment.Image, moment.IconType, moment.ID)
	if err != nil {
		return fmt.Errorf("failed to update moment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a moment by ID
func (r *TimelineRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM timeline_moments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete moment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
