package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"duet-backend/internal/models"
	"duet-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	secretCodeLength = 6
	secretCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeMaxAttempts  = 10
)

// CoupleService handles pairing business logic
type CoupleService struct {
	couples  CoupleStore
	users    UserStore
	events   EventStore
	calendar CalendarSyncer
}

// NewCoupleService creates a new couple service. calendar may be nil when
// external calendar sync is not configured.
func NewCoupleService(couples CoupleStore, users UserStore, events EventStore, calendar CalendarSyncer) *CoupleService {
	return &CoupleService{
		couples:  couples,
		users:    users,
		events:   events,
		calendar: calendar,
	}
}

// NormalizeSecretCode maps a user-typed code to its stored form
func NormalizeSecretCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// generateSecretCode generates a random 6-character code
func generateSecretCode() string {
	code := make([]byte, secretCodeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(secretCodeChars))))
		code[i] = secretCodeChars[n.Int64()]
	}
	return string(code)
}

// generateUniqueSecretCode generates a code not yet held by any couple.
// The code space is large enough that collisions are effectively
// unreachable, but uniqueness is re-checked before use anyway.
func (s *CoupleService) generateUniqueSecretCode(ctx context.Context) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code := generateSecretCode()
		exists, err := s.couples.SecretCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check secret code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique secret code after %d attempts", codeMaxAttempts)
}

// CreateCouple provisions a new couple with userID in the first partner
// slot and links the user to it. Returns ErrConflict if the user already
// belongs to a couple.
func (s *CoupleService) CreateCouple(ctx context.Context, userID string) (*models.Couple, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.CoupleID != nil {
		return nil, fmt.Errorf("%w: user already belongs to a couple", ErrConflict)
	}

	for i := 0; i < codeMaxAttempts; i++ {
		code, err := s.generateUniqueSecretCode(ctx)
		if err != nil {
			return nil, err
		}

		couple := &models.Couple{
			ID:         uuid.New().String(),
			Partner1ID: userID,
			SecretCode: code,
			CreatedAt:  time.Now(),
		}
		err = s.couples.Create(ctx, couple)
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race on the code between the existence check and the
			// insert; pick a fresh one.
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.users.SetCoupleID(ctx, userID, couple.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: user already belongs to a couple", ErrConflict)
			}
			return nil, err
		}
		return couple, nil
	}
	return nil, fmt.Errorf("failed to create couple: secret code kept colliding")
}

// JoinCouple attaches userID as the second partner of the couple holding
// the given secret code. The code is matched case-insensitively. Returns
// ErrNotFound for an unknown code, ErrRoomFull when both slots are taken
// and ErrConflict when the user already belongs to a couple. The slot fill
// is atomic: of two concurrent joins exactly one wins, the other observes
// ErrRoomFull.
func (s *CoupleService) JoinCouple(ctx context.Context, code, userID string) (*models.Couple, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.CoupleID != nil {
		return nil, fmt.Errorf("%w: user already belongs to a couple", ErrConflict)
	}

	normalized := NormalizeSecretCode(code)
	if normalized == "" {
		return nil, fmt.Errorf("%w: secret code required", ErrValidation)
	}

	couple, err := s.couples.GetBySecretCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid secret code", ErrNotFound)
		}
		return nil, err
	}
	if couple.IsFull() {
		return nil, ErrRoomFull
	}
	if couple.Partner1ID == userID {
		return nil, fmt.Errorf("%w: cannot join your own couple", ErrConflict)
	}

	if err := s.couples.FillSecondSlot(ctx, couple.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Zero rows updated: either a concurrent join claimed the slot
			// or the couple is gone. Re-read to tell the two apart.
			if _, rerr := s.couples.GetByID(ctx, couple.ID); rerr == nil {
				return nil, ErrRoomFull
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.users.SetCoupleID(ctx, userID, couple.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user already belongs to a couple", ErrConflict)
		}
		return nil, err
	}

	return s.couples.GetByID(ctx, couple.ID)
}

// CoupleView is the couple record with partner profiles attached
type CoupleView struct {
	ID              string                `json:"id"`
	SecretCode      string                `json:"secret_code"`
	Partner1        *models.PublicProfile `json:"partner1"`
	Partner2        *models.PublicProfile `json:"partner2,omitempty"`
	NextMeetingDate *time.Time            `json:"next_meeting_date,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// GetCoupleForUser returns the couple the user belongs to, including the
// partners' public profiles. Returns ErrNotFound when the user is not in
// a couple.
func (s *CoupleService) GetCoupleForUser(ctx context.Context, userID string) (*CoupleView, error) {
	couple, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, couple)
}

func (s *CoupleService) coupleOf(ctx context.Context, userID string) (*models.Couple, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.CoupleID == nil {
		return nil, fmt.Errorf("%w: user is not in a couple", ErrNotFound)
	}
	couple, err := s.couples.GetByID(ctx, *user.CoupleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return couple, nil
}

func (s *CoupleService) buildView(ctx context.Context, couple *models.Couple) (*CoupleView, error) {
	view := &CoupleView{
		ID:              couple.ID,
		SecretCode:      couple.SecretCode,
		NextMeetingDate: couple.NextMeetingDate,
		CreatedAt:       couple.CreatedAt,
	}
	if p1, err := s.users.GetByID(ctx, couple.Partner1ID); err == nil {
		profile := p1.Profile()
		view.Partner1 = &profile
	}
	if couple.Partner2ID != nil {
		if p2, err := s.users.GetByID(ctx, *couple.Partner2ID); err == nil {
			profile := p2.Profile()
			view.Partner2 = &profile
		}
	}
	return view, nil
}

// UpdateNextMeeting sets the couple's next meeting date, records a matching
// calendar event and best-effort syncs it to both partners' external
// calendars. Sync failures never fail the update itself.
func (s *CoupleService) UpdateNextMeeting(ctx context.Context, userID string, date *time.Time) (*CoupleView, error) {
	couple, err := s.coupleOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.couples.UpdateNextMeeting(ctx, couple.ID, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	couple.NextMeetingDate = date

	if date != nil {
		dateStr := date.Format("2006-01-02")
		event := &models.Event{
			ID:        uuid.New().String(),
			CoupleID:  couple.ID,
			Title:     "Next Date ❤️",
			Date:      dateStr,
			CreatedAt: time.Now(),
		}
		if err := s.events.Create(ctx, event); err != nil {
			log.Error().Err(err).Str("couple_id", couple.ID).Msg("Failed to record next-meeting event")
		}
		s.syncPartners(ctx, couple, "Next Date: Us & Ours", dateStr, "Time for a date! 💕")
	}

	return s.buildView(ctx, couple)
}

// syncPartners pushes an event to both partners' external calendars,
// logging and swallowing any failure.
func (s *CoupleService) syncPartners(ctx context.Context, couple *models.Couple, title, date, description string) {
	if s.calendar == nil {
		return
	}
	partnerIDs := []string{couple.Partner1ID}
	if couple.Partner2ID != nil {
		partnerIDs = append(partnerIDs, *couple.Partner2ID)
	}
	for _, id := range partnerIDs {
		if err := s.calendar.AddEvent(ctx, id, title, date, description); err != nil {
			log.Error().
				Err(err).
				Str("user_id", id).
				Str("date", date).
				Msg("Calendar sync failed")
		}
	}
}
