package services

import (
	"context"
	"sync"
	"time"

	"duet-backend/internal/models"
	"duet-backend/internal/repository"
)

// In-memory stores backing the service tests. They mirror the semantics
// of the pgx repositories, including the conditional single-row updates.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) SetCoupleID(_ context.Context, userID, coupleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.CoupleID != nil {
		return repository.ErrNotFound
	}
	u.CoupleID = &coupleID
	return nil
}

func (f *fakeUserStore) UpdateGoogleTokens(_ context.Context, userID string, googleID, accessToken, refreshToken *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if googleID != nil {
		u.GoogleID = googleID
	}
	if accessToken != nil {
		u.GoogleAccessToken = accessToken
	}
	if refreshToken != nil {
		u.GoogleRefreshToken = refreshToken
	}
	return nil
}

type fakeCoupleStore struct {
	mu      sync.Mutex
	couples map[string]*models.Couple
}

func newFakeCoupleStore() *fakeCoupleStore {
	return &fakeCoupleStore{couples: make(map[string]*models.Couple)}
}

func (f *fakeCoupleStore) Create(_ context.Context, couple *models.Couple) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.couples {
		if c.SecretCode == couple.SecretCode {
			return repository.ErrDuplicate
		}
	}
	clone := *couple
	f.couples[couple.ID] = &clone
	return nil
}

func (f *fakeCoupleStore) GetByID(_ context.Context, id string) (*models.Couple, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.couples[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCoupleStore) GetBySecretCode(_ context.Context, code string) (*models.Couple, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.couples {
		if c.SecretCode == code {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCoupleStore) SecretCodeExists(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.couples {
		if c.SecretCode == code {
			return true, nil
		}
	}
	return false, nil
}

// FillSecondSlot is conditional under one lock, matching the atomic
// UPDATE ... WHERE partner2_id IS NULL of the real repository.
func (f *fakeCoupleStore) FillSecondSlot(_ context.Context, coupleID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.couples[coupleID]
	if !ok || c.Partner2ID != nil {
		return repository.ErrNotFound
	}
	c.Partner2ID = &userID
	return nil
}

func (f *fakeCoupleStore) UpdateNextMeeting(_ context.Context, coupleID string, date *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.couples[coupleID]
	if !ok {
		return repository.ErrNotFound
	}
	c.NextMeetingDate = date
	return nil
}

type fakePostStore struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[string]*models.Post)}
}

func (f *fakePostStore) Create(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostStore) GetByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePostStore) ListByCoupleID(_ context.Context, coupleID string, limit int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Post
	for _, p := range f.posts {
		if p.CoupleID != nil && *p.CoupleID == coupleID && len(out) < limit {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePostStore) ListByAuthorID(_ context.Context, authorID string, limit int) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID && len(out) < limit {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePostStore) Update(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]*models.Event)}
}

func (f *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *event
	f.events[event.ID] = &clone
	return nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (f *fakeEventStore) ListByCoupleID(_ context.Context, coupleID string) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Event
	for _, e := range f.events {
		if e.CoupleID == coupleID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeEventStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeItemStore struct {
	mu    sync.Mutex
	items map[string]*models.ListItem
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: make(map[string]*models.ListItem)}
}

func (f *fakeItemStore) Create(_ context.Context, item *models.ListItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *item
	f.items[item.ID] = &clone
	return nil
}

func (f *fakeItemStore) GetByID(_ context.Context, id string) (*models.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *it
	return &clone, nil
}

func (f *fakeItemStore) ListByCoupleID(_ context.Context, coupleID string, itemType models.ItemType) ([]*models.ListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ListItem
	for _, it := range f.items {
		if it.CoupleID == coupleID && (itemType == "" || it.Type == itemType) {
			clone := *it
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeItemStore) UpdateStatus(_ context.Context, id string, status models.ItemStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	it.Status = status
	return nil
}

func (f *fakeItemStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeTimelineStore struct {
	mu      sync.Mutex
	moments map[string]*models.TimelineMoment
}

func newFakeTimelineStore() *fakeTimelineStore {
	return &fakeTimelineStore{moments: make(map[string]*models.TimelineMoment)}
}

func (f *fakeTimelineStore) Create(_ context.Context, moment *models.TimelineMoment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *moment
	f.moments[moment.ID] = &clone
	return nil
}

func (f *fakeTimelineStore) GetByID(_ context.Context, id string) (*models.TimelineMoment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.moments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (f *fakeTimelineStore) ListByCoupleID(_ context.Context, coupleID string) ([]*models.TimelineMoment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.TimelineMoment
	for _, m := range f.moments {
		if m.CoupleID == coupleID {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeTimelineStore) Update(_ context.Context, moment *models.TimelineMoment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.moments[moment.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *moment
	f.moments[moment.ID] = &clone
	return nil
}

func (f *fakeTimelineStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.moments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.moments, id)
	return nil
}

// fakeSyncer records calendar sync attempts and can be told to fail
type fakeSyncer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeSyncer) AddEvent(_ context.Context, userID, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID)
	return f.err
}
