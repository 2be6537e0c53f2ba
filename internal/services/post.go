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

const postListLimit = 50

// PostService handles journal posts. Every read and write derives its
// couple filter from the verified claims, never from client input.
type PostService struct {
	posts PostStore
}

// NewPostService creates a new post service
func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

// List returns posts visible to the caller: the couple's shared feed, or
// the caller's own posts as a fallback when they are not in a couple.
func (s *PostService) List(ctx context.Context, claims *Claims) ([]*models.Post, error) {
	if claims.CoupleID == nil {
		return s.posts.ListByAuthorID(ctx, claims.UserID, postListLimit)
	}
	return s.posts.ListByCoupleID(ctx, *claims.CoupleID, postListLimit)
}

// CreatePostRequest carries the input for a new post
type CreatePostRequest struct {
	Content string      `json:"content"`
	Mood    models.Mood `json:"mood"`
	Images  []string    `json:"images"`
	Date    *time.Time  `json:"date"`
}

// Create writes a new journal post. Posting requires couple membership.
func (s *PostService) Create(ctx context.Context, claims *Claims, req CreatePostRequest) (*models.Post, error) {
	if claims.CoupleID == nil {
		return nil, fmt.Errorf("%w: you must be in a couple to post", ErrForbidden)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if req.Mood == "" {
		req.Mood = models.MoodHappy
	}
	if !req.Mood.Valid() {
		return nil, fmt.Errorf("%w: unknown mood %q", ErrValidation, req.Mood)
	}

	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  claims.UserID,
		CoupleID:  claims.CoupleID,
		Content:   req.Content,
		Mood:      req.Mood,
		Images:    images,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePostRequest carries partial updates; nil fields are left alone
type UpdatePostRequest struct {
	Content *string      `json:"content"`
	Mood    *models.Mood `json:"mood"`
	Images  []string     `json:"images"`
	Date    *time.Time   `json:"date"`
}

// Update edits a post the caller is allowed to see
func (s *PostService) Update(ctx context.Context, claims *Claims, id string, req UpdatePostRequest) (*models.Post, error) {
	post, err := s.authorize(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, fmt.Errorf("%w: content is required", ErrValidation)
		}
		post.Content = *req.Content
	}
	if req.Mood != nil {
		if !req.Mood.Valid() {
			return nil, fmt.Errorf("%w: unknown mood %q", ErrValidation, *req.Mood)
		}
		post.Mood = *req.Mood
	}
	if req.Images != nil {
		post.Images = req.Images
	}
	if req.Date != nil {
		post.Date = *req.Date
	}
	post.UpdatedAt = time.Now()

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// Delete removes a post the caller is allowed to see
func (s *PostService) Delete(ctx context.Context, claims *Claims, id string) error {
	if _, err := s.authorize(ctx, claims, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// authorize loads a post and checks it sits inside the caller's scope.
// Posts outside the caller's couple are reported as not found rather than
// forbidden, so ids cannot be probed across couples.
func (s *PostService) authorize(ctx context.Context, claims *Claims, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if claims.CoupleID != nil {
		if post.CoupleID == nil || *post.CoupleID != *claims.CoupleID {
			return nil, ErrNotFound
		}
		return post, nil
	}
	if post.AuthorID != claims.UserID {
		return nil, ErrNotFound
	}
	return post, nil
}
