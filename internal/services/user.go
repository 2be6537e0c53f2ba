package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"duet-backend/internal/models"
	"duet-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Registration modes
const (
	ActionCreate = "create"
	ActionJoin   = "join"
)

// Claims is the signed identity assertion carried by the session token
type Claims struct {
	UserID   string  `json:"user_id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	CoupleID *string `json:"couple_id"`
	jwt.RegisteredClaims
}

// UserService handles registration, login and session tokens
type UserService struct {
	users     UserStore
	couples   *CoupleService
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService creates a new user service
func NewUserService(users UserStore, couples *CoupleService, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		couples:   couples,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterRequest carries the registration input
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Action     string `json:"action"`
	SecretCode string `json:"secretCode"`
}

// RegisterResult is what a successful registration produces. SecretCode is
// set only for the create action, so the first partner can share it.
type RegisterResult struct {
	User       *models.User
	Token      string
	SecretCode string
}

// Register creates a user and, depending on the action, either provisions
// a fresh couple (returning its secret code) or joins an existing one.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if req.Action != ActionCreate && req.Action != ActionJoin {
		return nil, fmt.Errorf("%w: invalid action", ErrValidation)
	}
	if req.Action == ActionJoin && strings.TrimSpace(req.SecretCode) == "" {
		return nil, fmt.Errorf("%w: secret code required", ErrValidation)
	}

	// For join mode, make sure the target couple can still take a member
	// before the user record exists. The atomic slot fill below re-checks,
	// so a racing join never overfills.
	if req.Action == ActionJoin {
		couple, err := s.couples.couples.GetBySecretCode(ctx, NormalizeSecretCode(req.SecretCode))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: invalid secret code", ErrNotFound)
			}
			return nil, err
		}
		if couple.IsFull() {
			return nil, ErrRoomFull
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", ErrAlreadyExists)
		}
		return nil, err
	}

	result := &RegisterResult{User: user}

	switch req.Action {
	case ActionCreate:
		couple, err := s.couples.CreateCouple(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		user.CoupleID = &couple.ID
		result.SecretCode = couple.SecretCode
	case ActionJoin:
		couple, err := s.couples.JoinCouple(ctx, req.SecretCode, user.ID)
		if err != nil {
			return nil, err
		}
		user.CoupleID = &couple.ID
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	result.Token = token
	return result, nil
}

// Login validates credentials and issues a session token. The failure is
// undifferentiated: an unknown email and a wrong password both come back
// as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken mints a signed session token for the user
func (s *UserService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		CoupleID: user.CoupleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a session token and returns its claims. Expired,
// tampered or malformed tokens all come back as ErrUnauthorized; no field
// of a token that fails verification is ever trusted.
func (s *UserService) VerifyToken(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.UserID == "" {
		return nil, ErrUnauthorized
	}
	return &claims, nil
}

// GetMe returns the authenticated user's own record
func (s *UserService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// LinkGoogleAccount attaches a Google identity and its OAuth tokens to an
// existing user. The account is matched by Google id first, then by email;
// a Google email that does not match any registered user is rejected so a
// stranger cannot mint a session through the OAuth callback.
func (s *UserService) LinkGoogleAccount(ctx context.Context, googleID, email string, accessToken, refreshToken *string) (*models.User, error) {
	user, err := s.users.GetByGoogleID(ctx, googleID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(email))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: no account for %s, register first", ErrNotFound, email)
			}
			return nil, err
		}
	}

	gid := googleID
	if err := s.users.UpdateGoogleTokens(ctx, user.ID, &gid, accessToken, refreshToken); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, user.ID)
}

// GoogleStatus reports whether the user has a Google Calendar connection
type GoogleStatus struct {
	Connected       bool   `json:"connected"`
	HasRefreshToken bool   `json:"hasRefreshToken"`
	HasAccessToken  bool   `json:"hasAccessToken"`
	Email           string `json:"googleEmail"`
}

// GetGoogleStatus returns the user's Google Calendar connection state
func (s *UserService) GetGoogleStatus(ctx context.Context, userID string) (*GoogleStatus, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoogleStatus{
		Connected:       user.GoogleID != nil,
		HasRefreshToken: user.GoogleRefreshToken != nil,
		HasAccessToken:  user.GoogleAccessToken != nil,
		Email:           user.Email,
	}, nil
}
