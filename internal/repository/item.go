package repository

import (
	"context"
	"fmt"

	"duet-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = `id, couple_id, added_by, title, type, status, link, created_at, updated_at`

// ItemRepository handles database operations for watch/listen list items
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new list item
func (r *ItemRepository) Create(ctx context.Context, item *models.ListItem) error {
	query := `
		INSERT INTO list_items (id, couple_id, added_by, title, type, status, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.CoupleID, item.AddedByID, item.Title, item.Type,
		item.Status, item.Link, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves a list item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.ListItem, error) {
	query := `SELECT ` + itemColumns + ` FROM list_items WHERE id = $1`
	var item models.ListItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.CoupleID, &item.AddedByID, &item.Title, &item.Type,
		&item.Status, &item.Link, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err = translate(err); err == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// ListByCoupleID retrieves a couple's items, newest first.
// itemType narrows the list to one kind when non-empty.
func (r *ItemRepository) ListByCoupleID(ctx context.Context, coupleID string, itemType models.ItemType) ([]*models.ListItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM list_items
		WHERE couple_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, coupleID, string(itemType))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.ListItem
	for rows.Next() {
		var item models.ListItem
		err := rows.Scan(
			&item.ID, &item.CoupleID, &item.AddedByID, &item.Title, &item.Type,
			&item.Status, &item.Link, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// UpdateStatus updates the pending/completed status of an item
func (r *ItemRepository) UpdateStatus(ctx context.Context, id string, status models.ItemStatus) error {
	query := `UPDATE list_items SET status = $1, updated_at = now() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes an item by ID
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM list_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
