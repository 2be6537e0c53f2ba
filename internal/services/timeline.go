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

// TimelineService handles the couple's milestone timeline
type TimelineService struct {
	moments TimelineStore
}

// NewTimelineService creates a new timeline service
func NewTimelineService(moments TimelineStore) *TimelineService {
	return &TimelineService{moments: moments}
}

// List returns the couple's moments in chronological order
func (s *TimelineService) List(ctx context.Context, claims *Claims) ([]*models.TimelineMoment, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	return s.moments.ListByCoupleID(ctx, *claims.CoupleID)
}

// CreateMomentRequest carries the input for a new timeline moment
type CreateMomentRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Image       string          `json:"image"`
	IconType    models.IconType `json:"iconType"`
}

// Create adds a moment to the couple's timeline
func (s *TimelineService) Create(ctx context.Context, claims *Claims, req CreateMomentRequest) (*models.TimelineMoment, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	if req.IconType == "" {
		req.IconType = models.IconHeart
	}
	if !req.IconType.Valid() {
		return nil, fmt.Errorf("%w: unknown icon type %q", ErrValidation, req.IconType)
	}

	moment := &models.TimelineMoment{
		ID:          uuid.New().String(),
		CoupleID:    *claims.CoupleID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Image:       req.Image,
		IconType:    req.IconType,
		CreatedAt:   time.Now(),
	}
	if err := s.moments.Create(ctx, moment); err != nil {
		return nil, err
	}
	return moment, nil
}

// UpdateMomentRequest carries partial updates; nil fields are left alone
type UpdateMomentRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date"`
	Image       *string          `json:"image"`
	IconType    *models.IconType `json:"iconType"`
}

// Update edits one of the couple's moments
func (s *TimelineService) Update(ctx context.Context, claims *Claims, id string, req UpdateMomentRequest) (*models.TimelineMoment, error) {
	moment, err := s.authorize(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		moment.Title = *req.Title
	}
	if req.Description != nil {
		moment.Description = *req.Description
	}
	if req.Date != nil {
		moment.Date = *req.Date
	}
	if req.Image != nil {
		moment.Image = *req.Image
	}
	if req.IconType != nil {
		if !req.IconType.Valid() {
			return nil, fmt.Errorf("%w: unknown icon type %q", ErrValidation, *req.IconType)
		}
		moment.IconType = *req.IconType
	}

	if err := s.moments.Update(ctx, moment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return moment, nil
}

// Delete removes one of the couple's moments
func (s *TimelineService) Delete(ctx context.Context, claims *Claims, id string) error {
	if _, err := s.authorize(ctx, claims, id); err != nil {
		return err
	}
	if err := s.moments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TimelineService) authorize(ctx context.Context, claims *Claims, id string) (*models.TimelineMoment, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	moment, err := s.moments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if moment.CoupleID != *claims.CoupleID {
		return nil, ErrNotFound
	}
	return moment, nil
}
