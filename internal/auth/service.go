// Package auth issues and verifies session tokens and owns the credential
// lifecycle: login, token verification, and user creation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zorooz/dayrunner/internal/storage"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers cannot tell which factor failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUsernameTaken      = errors.New("username already taken")
)

// DefaultUsername and DefaultPassword are the built-in first-boot account.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

// Service verifies credentials against a storage.Store and mints HS256
// session tokens. Tokens are stateless: expiry is the only revocation path.
type Service struct {
	store    storage.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewService(store storage.Store, secret []byte, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL}
}

// Login verifies a username/password pair and returns a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("loading user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return SignToken(s.secret, username, s.tokenTTL)
}

// Verify checks a token's signature and expiry and returns the embedded
// username. The result is trusted as the caller's identity for the rest of
// the request; no store lookup happens here.
func (s *Service) Verify(token string) (string, error) {
	return ParseToken(s.secret, token)
}

// CreateUser hashes the password and stores a new record tagged with the
// creating user. Fails with ErrUsernameTaken if the name exists.
func (s *Service) CreateUser(ctx context.Context, username, password, requestedBy string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	u := &storage.User{
		Username:     username,
		PasswordHash: hash,
		CreatedBy:    requestedBy,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("storing user: %w", err)
	}
	return nil
}

// EnsureDefaultUser inserts the built-in account when the store is empty.
// Idempotent; called once at process start.
func (s *Service) EnsureDefaultUser(ctx context.Context) error {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := HashPassword(DefaultPassword)
	if err != nil {
		return fmt.Errorf("hashing default password: %w", err)
	}
	err = s.store.CreateUser(ctx, &storage.User{
		Username:     DefaultUsername,
		PasswordHash: hash,
	})
	if err != nil && !errors.Is(err, storage.ErrUsernameTaken) {
		return fmt.Errorf("creating default user: %w", err)
	}

	log.Printf("WARNING: created default user %q with a well-known password; change it", DefaultUsername)
	return nil
}
