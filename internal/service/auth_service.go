package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"taskbook_api/internal/domain"
	"taskbook_api/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type AuthService struct {
	users    UserStore
	hasher   *PasswordHasher
	tokens   *TokenIssuer
	tokenTTL time.Duration

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenIssuer, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, tokenTTL: tokenTTL}
}

// Register creates a user with a hashed password. A taken username, whether
// seen up front or reported by the unique constraint, yields ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login returns a session token. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		// Same bcrypt work as a real mismatch, so timing does not reveal the username.
		s.hasher.Verify(s.dummyHash(), password)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID, s.tokenTTL)
}

// dummyHash is a hash at the configured cost that no login path stores.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("taskbook-dummy-password")
		if err == nil {
			s.dummy = h
		}
	})
	return s.dummy
}
