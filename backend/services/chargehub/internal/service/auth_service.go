package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/password"
	"chargehub/backend/services/chargehub/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrEmailRequired is returned for a blank or malformed email.
	ErrEmailRequired = errors.New("auth: a valid email is required")
	// ErrSessionRevoked is returned for tokens of signed-out sessions.
	ErrSessionRevoked = errors.New("auth: session signed out")
	// ErrUnauthorized wraps token validation failures.
	ErrUnauthorized = errors.New("auth: unauthorized")
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// SessionRevoker remembers signed-out sessions until their tokens expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// SessionReleaser tears down the per-session station store.
type SessionReleaser interface {
	Release(sessionID string) bool
}

// AuthService contains registration, login and logout logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	revoker   SessionRevoker
	sessions  SessionReleaser
	logger    *zap.Logger
}

// NewAuthService builds AuthService. A nil revoker falls back to an in-process set.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, revoker SessionRevoker, sessions SessionReleaser, logger *zap.Logger) *AuthService {
	if revoker == nil {
		revoker = NewMemoryRevocations()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		revoker:   revoker,
		sessions:  sessions,
		logger:    logger,
	}
}

// SignUp registers a new user after checking the password rules.
func (s *AuthService) SignUp(ctx context.Context, email, pass, confirm, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrEmailRequired
	}
	if err := ValidatePassword(pass, confirm); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// SignIn authenticates a user and issues a token bound to a new session.
func (s *AuthService) SignIn(ctx context.Context, email, pass string) (string, *Claims, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return "", nil, nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, nil, ErrInvalidCredentials
		}
		return "", nil, nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return "", nil, nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokenizer.GenerateToken(user.ID, user.Name)
	if err != nil {
		return "", nil, nil, err
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("session_id", claims.SessionID()))
	return token, claims, user, nil
}

// Authenticate validates the token and rejects signed-out sessions.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokenizer.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// CurrentUser loads the account behind authenticated claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

// SignOut revokes the session until the token expires and releases its store.
func (s *AuthService) SignOut(ctx context.Context, claims *Claims) error {
	if err := s.revoker.Revoke(ctx, claims.SessionID(), claims.ExpiresAtTime()); err != nil {
		return err
	}
	released := false
	if s.sessions != nil {
		released = s.sessions.Release(claims.SessionID())
	}
	s.logger.Info("user signed out",
		zap.String("user_id", claims.UserID),
		zap.String("session_id", claims.SessionID()),
		zap.Bool("store_released", released),
	)
	return nil
}
