package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/redmonkez12/bookdiary-api/internal/logging"
	"github.com/redmonkez12/bookdiary-api/internal/user"
)

const (
	maxUsernameLength = 50
	tokenTypeBearer   = "bearer"
)

// UserRepository is the part of the user store registration and login need.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// Service handles authentication business logic
type Service struct {
	userRepo UserRepository
	hasher   PasswordHasher
	tokens   TokenService
	denylist Denylist
	logger   *logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewService(
	userRepo UserRepository,
	hasher PasswordHasher,
	tokens TokenService,
	denylist Denylist,
	logger *logging.Logger,
) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
	}
}

// Register creates a new account and returns a token for it.
func (s *Service) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	_, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, user.ErrNotFound):
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique index still decides when two registrations race.
	newUser, err := s.userRepo.Create(ctx, username, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(newUser)
}

// Login checks the credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Burn a verify so unknown usernames cost the same as wrong passwords.
			s.hasher.Verify(password, s.getDummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, existingUser.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(existingUser)
}

// Logout revokes the presented token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *TokenClaims) error {
	if s.denylist == nil {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (s *Service) issue(u *user.User) (*AuthResult, error) {
	token, _, err := s.tokens.CreateToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AuthResult{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		UserID:      u.ID,
		Username:    u.Username,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// fallbackDummyHash is a well-formed digest that matches no password. Unknown
// usernames are verified against it when a fresh dummy hash cannot be made.
const fallbackDummyHash = "$argon2id$v=19$m=65536,t=3,p=4$yfUDHWIOcPagUBS136dHmw$jnnsVy1S8D+6IMijk1C68cIIMVvclGrf6ucY5CPJI/E"

func (s *Service) getDummyHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash, using fallback", "error", err)
			hash = fallbackDummyHash
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
