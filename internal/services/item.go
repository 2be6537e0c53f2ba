package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"duet-backend/internal/models"
	"duet-backend/internal/repository"

	"github.com/google/uuid"
)

// ItemService handles the shared watch/listen list
type ItemService struct {
	items ItemStore
}

// NewItemService creates a new item service
func NewItemService(items ItemStore) *ItemService {
	return &ItemService{items: items}
}

// List returns the couple's list items, newest first, optionally narrowed
// to one item type.
func (s *ItemService) List(ctx context.Context, claims *Claims, itemType models.ItemType) ([]*models.ListItem, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	if itemType != "" && !itemType.Valid() {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrValidation, itemType)
	}
	return s.items.ListByCoupleID(ctx, *claims.CoupleID, itemType)
}

// CreateItemRequest carries the input for a new list item
type CreateItemRequest struct {
	Title string          `json:"title"`
	Type  models.ItemType `json:"type"`
	Link  string          `json:"link"`
}

// Create adds an item to the couple's list
func (s *ItemService) Create(ctx context.Context, claims *Claims, req CreateItemRequest) (*models.ListItem, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be movie or song", ErrValidation)
	}

	now := time.Now()
	item := &models.ListItem{
		ID:        uuid.New().String(),
		CoupleID:  *claims.CoupleID,
		AddedByID: claims.UserID,
		Title:     req.Title,
		Type:      req.Type,
		Status:    models.ItemPending,
		Link:      req.Link,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateStatus flips an item between pending and completed. Only the
// status is client-mutable after creation.
func (s *ItemService) UpdateStatus(ctx context.Context, claims *Claims, id string, status models.ItemStatus) (*models.ListItem, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be pending or completed", ErrValidation)
	}
	if _, err := s.authorize(ctx, claims, id); err != nil {
		return nil, err
	}
	if err := s.items.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.items.GetByID(ctx, id)
}

// Delete removes an item from the couple's list
func (s *ItemService) Delete(ctx context.Context, claims *Claims, id string) error {
	if _, err := s.authorize(ctx, claims, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ItemService) authorize(ctx context.Context, claims *Claims, id string) (*models.ListItem, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.CoupleID != *claims.CoupleID {
		return nil, ErrNotFound
	}
	return item, nil
}
