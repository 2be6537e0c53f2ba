package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"duet-backend/internal/config"
	"duet-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	calendarEventsURL = "https://www.googleapis.com/calendar/v3/calendars/primary/events"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	calendarScope     = "https://www.googleapis.com/auth/calendar"
)

// CalendarService pushes all-day events to users' Google Calendars and
// drives the OAuth linking flow. All syncs are best-effort: callers log
// the returned error and move on.
type CalendarService struct {
	users UserStore
	conf  *oauth2.Config

	// overridable in tests
	eventsURL   string
	userInfoURL string
}

// NewCalendarService creates a new calendar service
func NewCalendarService(users UserStore, cfg config.GoogleConfig) *CalendarService {
	return &CalendarService{
		users: users,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile", calendarScope},
			Endpoint:     google.Endpoint,
		},
		eventsURL:   calendarEventsURL,
		userInfoURL: googleUserInfoURL,
	}
}

// Enabled reports whether an OAuth client is configured
func (s *CalendarService) Enabled() bool {
	return s.conf.ClientID != "" && s.conf.ClientSecret != ""
}

// AuthURL builds the Google consent URL. Offline access with forced
// consent so a refresh token is issued.
func (s *CalendarService) AuthURL(state string) string {
	return s.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// GoogleProfile is the identity returned by the userinfo endpoint
type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Exchange trades an authorization code for tokens and fetches the
// Google profile they belong to.
func (s *CalendarService) Exchange(ctx context.Context, code string) (*GoogleProfile, *oauth2.Token, error) {
	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, nil, fmt.Errorf("failed to decode google profile: %w", err)
	}
	if profile.ID == "" {
		return nil, nil, errors.New("google profile has no id")
	}
	return &profile, token, nil
}

type calendarDate struct {
	Date string `json:"date"`
}

type calendarEvent struct {
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	Start       calendarDate `json:"start"`
	End         calendarDate `json:"end"`
}

// AddEvent inserts an all-day event into the user's primary calendar.
// Users without a Google connection are skipped silently. A refreshed
// access token is written back through the user store.
func (s *CalendarService) AddEvent(ctx context.Context, userID, title, date, description string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.GoogleAccessToken == nil && user.GoogleRefreshToken == nil {
		log.Debug().Str("user_id", userID).Msg("Calendar sync skipped: Google not connected")
		return nil
	}

	token := &oauth2.Token{}
	if user.GoogleAccessToken != nil {
		token.AccessToken = *user.GoogleAccessToken
	}
	if user.GoogleRefreshToken != nil {
		token.RefreshToken = *user.GoogleRefreshToken
		// The stored access token's expiry is unknown; mark it stale so
		// the token source refreshes it instead of trusting it forever.
		token.Expiry = time.Now().Add(-time.Minute)
	}
	source := s.conf.TokenSource(ctx, token)

	fresh, err := source.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	if fresh.AccessToken != "" && (user.GoogleAccessToken == nil || fresh.AccessToken != *user.GoogleAccessToken) {
		if uerr := s.users.UpdateGoogleTokens(ctx, userID, nil, &fresh.AccessToken, nil); uerr != nil {
			log.Error().Err(uerr).Str("user_id", userID).Msg("Failed to persist refreshed access token")
		}
	}

	start, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid event date %q: %w", date, err)
	}
	if description == "" {
		description = "Planned via Us & Ours App"
	}
	event := calendarEvent{
		Summary:     "❤️ " + title,
		Description: description,
		Start:       calendarDate{Date: date},
		// All-day events end on the following day
		End: calendarDate{Date: start.AddDate(0, 0, 1).Format("2006-01-02")},
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode calendar event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.eventsURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := oauth2.NewClient(ctx, source).Do(req)
	if err != nil {
		return fmt.Errorf("calendar insert failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("calendar insert returned status %d", resp.StatusCode)
	}

	log.Info().
		Str("user_id", userID).
		Str("date", date).
		Msg("Event synced to Google Calendar")
	return nil
}
