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
	"github.com/rs/zerolog/log"
)

// EventService handles the shared calendar
type EventService struct {
	events   EventStore
	couples  CoupleStore
	calendar CalendarSyncer
}

// NewEventService creates a new event service. calendar may be nil.
func NewEventService(events EventStore, couples CoupleStore, calendar CalendarSyncer) *EventService {
	return &EventService{events: events, couples: couples, calendar: calendar}
}

// List returns the couple's events in ascending date order
func (s *EventService) List(ctx context.Context, claims *Claims) ([]*models.Event, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	return s.events.ListByCoupleID(ctx, *claims.CoupleID)
}

// Create adds an event to the couple's calendar and best-effort syncs it
// to both partners' external calendars.
func (s *EventService) Create(ctx context.Context, claims *Claims, title, date string) (*models.Event, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	event := &models.Event{
		ID:        uuid.New().String(),
		CoupleID:  *claims.CoupleID,
		Title:     title,
		Date:      date,
		CreatedAt: time.Now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.syncPartners(ctx, *claims.CoupleID, title, date)
	return event, nil
}

// Delete removes one of the couple's events
func (s *EventService) Delete(ctx context.Context, claims *Claims, id string) error {
	if claims.CoupleID == nil {
		return fmt.Errorf("%w: not in a couple", ErrForbidden)
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if event.CoupleID != *claims.CoupleID {
		return ErrNotFound
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *EventService) syncPartners(ctx context.Context, coupleID, title, date string) {
	if s.calendar == nil {
		return
	}
	couple, err := s.couples.GetByID(ctx, coupleID)
	if err != nil {
		log.Error().Err(err).Str("couple_id", coupleID).Msg("Calendar sync skipped: couple lookup failed")
		return
	}
	partnerIDs := []string{couple.Partner1ID}
	if couple.Partner2ID != nil {
		partnerIDs = append(partnerIDs, *couple.Partner2ID)
	}
	for _, id := range partnerIDs {
		if err := s.calendar.AddEvent(ctx, id, title, date, "Event from Us & Ours"); err != nil {
			log.Error().
				Err(err).
				Str("user_id", id).
				Str("date", date).
				Msg("Calendar sync failed")
		}
	}
}
