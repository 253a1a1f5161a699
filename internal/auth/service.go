package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/core/common/validation"
	"github.com/frahmantamala/order-admin/internal/user"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
}

type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(stored, password string) (ok bool, needsUpgrade bool)
}

type Service struct {
	users          UserRepository
	credentials    CredentialVerifier
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(users UserRepository, credentials CredentialVerifier, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:          users,
		credentials:    credentials,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Session is the outcome of a successful login.
type Session struct {
	User      *user.User
	Token     string
	ExpiresAt time.Time
}

// Authenticate checks the credentials and opens a session. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*Session, error) {
	if appErr := validation.ValidateCredentials(dto.Username, dto.Password); appErr != nil {
		return nil, internal.NewValidationError("Kullanıcı adı ve şifre gereklidir", internal.ErrCodeValidationFailed)
	}

	u, err := s.users.FindByUsername(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, needsUpgrade := s.credentials.Verify(u.Password, dto.Password)
	if !ok {
		s.logger.Info("login rejected", "username", dto.Username)
		return nil, internal.ErrInvalidCredentials
	}

	if needsUpgrade {
		s.upgradePassword(ctx, u.ID, dto.Password)
	}

	token, expiresAt, err := s.tokenGenerator.GenerateSessionToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("login succeeded", "user_id", u.ID)
	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// upgradePassword replaces a plaintext password with its hash. Failure is
// logged only; the login itself already succeeded.
func (s *Service) upgradePassword(ctx context.Context, userID int64, password string) {
	hash, err := s.credentials.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash legacy password", "user_id", userID, "error", err)
		return
	}
	if err := s.users.SetPasswordHash(ctx, userID, hash); err != nil {
		s.logger.Error("failed to store upgraded password", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("legacy password upgraded", "user_id", userID)
}

// ResolveSession validates the token and loads its user fresh from storage,
// so deleted users and department changes take effect immediately.
func (s *Service) ResolveSession(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.tokenGenerator.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return u, nil
}
