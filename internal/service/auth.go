package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/manaworks/jobportal/internal/model"
	"github.com/manaworks/jobportal/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// DefaultEmailDomain is used to derive the email of auto-provisioned admins.
const DefaultEmailDomain = "manaworks.online"

// AuthConfig describes the single configured admin identity. PasswordHash,
// when set, takes precedence over Password.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	EmailDomain  string
}

// AuthService authenticates the configured admin and manages their sessions.
type AuthService struct {
	store        *store.Store
	sessions     *SessionRegistry
	username     string
	passwordHash string
	emailDomain  string
	logger       *slog.Logger
}

// NewAuthService creates an AuthService. A plaintext password is hashed once
// here and never retained.
func NewAuthService(st *store.Store, sessions *SessionRegistry, cfg AuthConfig, logger *slog.Logger) (*AuthService, error) {
	if cfg.Username == "" {
		return nil, errors.New("admin username is required")
	}

	hash := cfg.PasswordHash
	if hash == "" {
		if cfg.Password == "" {
			return nil, errors.New("admin password or password hash is required")
		}
		var err error
		if hash, err = HashPassword(cfg.Password); err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}

	domain := cfg.EmailDomain
	if domain == "" {
		domain = DefaultEmailDomain
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		store:        st,
		sessions:     sessions,
		username:     cfg.Username,
		passwordHash: hash,
		emailDomain:  domain,
		logger:       logger,
	}, nil
}

// Sessions returns the registry backing this service.
func (s *AuthService) Sessions() *SessionRegistry {
	return s.sessions
}

// Login checks the credentials against the configured admin. On success the
// admin record is created if it does not exist yet and a new session is
// issued. Any mismatch yields ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, *model.Admin, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := VerifyPassword(password, s.passwordHash)
	if !userOK || !passOK {
		return nil, nil, ErrInvalidCredentials
	}

	admin, err := s.ensureAdmin(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessions.Issue(admin.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("issue session: %w", err)
	}
	return &session, admin, nil
}

// ensureAdmin returns the admin record for username, creating it on first
// login. A concurrent first login may win the insert; the stored record is
// then re-read.
func (s *AuthService) ensureAdmin(ctx context.Context, username string) (*model.Admin, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	admin = &model.Admin{
		Username:     username,
		Email:        username + "@" + s.emailDomain,
		PasswordHash: s.passwordHash,
	}
	if createErr := s.store.CreateAdmin(ctx, admin); createErr != nil {
		existing, err := s.store.GetAdminByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("create admin: %w", createErr)
		}
		return existing, nil
	}

	s.logger.Info("admin provisioned", "username", username, "admin_id", admin.ID)
	return admin, nil
}

// Verify resolves a token to its admin id.
func (s *AuthService) Verify(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}
	id, ok := s.sessions.Lookup(token)
	if !ok {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) {
	s.sessions.Revoke(token)
}
