package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"duet-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalendarFixture() (*CalendarService, *fakeUserStore) {
	users := newFakeUserStore()
	svc := NewCalendarService(users, config.GoogleConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/google/callback",
	})
	return svc, users
}

func TestCalendarEnabled(t *testing.T) {
	svc, _ := newCalendarFixture()
	assert.True(t, svc.Enabled())

	disabled := NewCalendarService(newFakeUserStore(), config.GoogleConfig{})
	assert.False(t, disabled.Enabled())
}

func TestCalendarAuthURL(t *testing.T) {
	svc, _ := newCalendarFixture()

	url := svc.AuthURL("state-abc")
	assert.Contains(t, url, "state=state-abc")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "client_id=client-id")
}

func TestAddEventSkipsUnconnectedUser(t *testing.T) {
	svc, users := newCalendarFixture()
	ctx := context.Background()
	user := seedUser(t, users, "Alice", "alice@example.com")

	// No Google tokens and no user at all both skip without error.
	require.NoError(t, svc.AddEvent(ctx, user.ID, "Dinner", "2026-09-20", ""))
	require.NoError(t, svc.AddEvent(ctx, "no-such-user", "Dinner", "2026-09-20", ""))
}

func TestAddEventPostsAllDayEvent(t *testing.T) {
	svc, users := newCalendarFixture()
	ctx := context.Background()
	user := seedUser(t, users, "Alice", "alice@example.com")

	access := "access-token"
	require.NoError(t, users.UpdateGoogleTokens(ctx, user.ID, nil, &access, nil))

	var got calendarEvent
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()
	svc.eventsURL = server.URL

	require.NoError(t, svc.AddEvent(ctx, user.ID, "Dinner", "2026-09-20", "Date night"))
	assert.Equal(t, "Bearer access-token", auth)
	assert.Equal(t, "❤️ Dinner", got.Summary)
	assert.Equal(t, "Date night", got.Description)
	assert.Equal(t, "2026-09-20", got.Start.Date)
	// All-day events end on the following day.
	assert.Equal(t, "2026-09-21", got.End.Date)
}

func TestAddEventFailureStatus(t *testing.T) {
	svc, users := newCalendarFixture()
	ctx := context.Background()
	user := seedUser(t, users, "Alice", "alice@example.com")

	access := "access-token"
	require.NoError(t, users.UpdateGoogleTokens(ctx, user.ID, nil, &access, nil))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()
	svc.eventsURL = server.URL

	err := svc.AddEvent(ctx, user.ID, "Dinner", "2026-09-20", "")
	assert.Error(t, err)
}

func TestAddEventRejectsBadDate(t *testing.T) {
	svc, users := newCalendarFixture()
	ctx := context.Background()
	user := seedUser(t, users, "Alice", "alice@example.com")

	access := "access-token"
	require.NoError(t, users.UpdateGoogleTokens(ctx, user.ID, nil, &access, nil))

	err := svc.AddEvent(ctx, user.ID, "Dinner", "September 20th", "")
	assert.Error(t, err)
}
