package services

import (
	"context"
	"time"

	"duet-backend/internal/models"
)

// Store interfaces consumed by the services. The pgx-backed types in
// internal/repository satisfy them; tests substitute in-memory fakes.

// UserStore persists user records
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	SetCoupleID(ctx context.Context, userID, coupleID string) error
	UpdateGoogleTokens(ctx context.Context, userID string, googleID, accessToken, refreshToken *string) error
}

// CoupleStore persists pairing records
type CoupleStore interface {
	Create(ctx context.Context, couple *models.Couple) error
	GetByID(ctx context.Context, id string) (*models.Couple, error)
	GetBySecretCode(ctx context.Context, code string) (*models.Couple, error)
	SecretCodeExists(ctx context.Context, code string) (bool, error)
	FillSecondSlot(ctx context.Context, coupleID, userID string) error
	UpdateNextMeeting(ctx context.Context, coupleID string, date *time.Time) error
}

// PostStore persists journal posts
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByCoupleID(ctx context.Context, coupleID string, limit int) ([]*models.Post, error)
	ListByAuthorID(ctx context.Context, authorID string, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// EventStore persists calendar events
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	ListByCoupleID(ctx context.Context, coupleID string) ([]*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// ItemStore persists watch/listen list items
type ItemStore interface {
	Create(ctx context.Context, item *models.ListItem) error
	GetByID(ctx context.Context, id string) (*models.ListItem, error)
	ListByCoupleID(ctx context.Context, coupleID string, itemType models.ItemType) ([]*models.ListItem, error)
	UpdateStatus(ctx context.Context, id string, status models.ItemStatus) error
	Delete(ctx context.Context, id string) error
}

// TimelineStore persists timeline moments
type TimelineStore interface {
	Create(ctx context.Context, moment *models.TimelineMoment) error
	GetByID(ctx context.Context, id string) (*models.TimelineMoment, error)
	ListByCoupleID(ctx context.Context, coupleID string) ([]*models.TimelineMoment, error)
	Update(ctx context.Context, moment *models.TimelineMoment) error
	Delete(ctx context.Context, id string) error
}

// CalendarSyncer pushes an all-day event to a user's external calendar.
// Implementations are best-effort; callers log and swallow failures.
type CalendarSyncer interface {
	AddEvent(ctx context.Context, userID, title, date, description string) error
}
