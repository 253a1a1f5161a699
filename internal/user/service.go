package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/collection"
	"github.com/frahmantamala/order-admin/internal/core/common/validation"
	"github.com/frahmantamala/order-admin/internal/core/events"
)

// RepositoryAPI is satisfied by *collection.Store[User].
type RepositoryAPI interface {
	List(ctx context.Context, filter func(User) bool) ([]User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Insert(ctx context.Context, record User) (User, error)
	Update(ctx context.Context, id int64, mutate func(User) (User, error)) (User, error)
	Delete(ctx context.Context, ids []int64) ([]int64, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	hasher    PasswordHasher
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "failed to get user")
	}
	return &u, nil
}

// FindByUsername returns the first user whose username matches exactly.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	matches, err := s.repo.List(ctx, func(u User) bool { return u.Username == username })
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if len(matches) == 0 {
		return nil, internal.ErrUserNotFound
	}
	return &matches[0], nil
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if appErr := validation.ValidateCredentials(req.Username, req.Password); appErr != nil {
		return nil, appErr
	}
	if appErr := validateProfile(req.Username, req.Email); appErr != nil {
		return nil, appErr
	}
	if appErr := validation.ValidatePassword(req.Password); appErr != nil {
		return nil, appErr
	}

	u := req.ToUser()
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = hash

	created, err := s.repo.Insert(ctx, u)
	if err != nil {
		return nil, mapStoreError(err, "failed to create user")
	}

	s.logger.Info("user created", "user_id", created.ID, "username", created.Username)
	s.publish(ctx, events.NewRecordEvent(events.EventTypeUserCreated, []int64{created.ID}, internal.UserIDFromContext(ctx)))
	return &created, nil
}

func (s *Service) Update(ctx context.Context, patch UserPatch) (*User, error) {
	if patch.ID == nil {
		return nil, internal.NewValidationFieldError("id", "Kullanıcı ID gereklidir", internal.ErrCodeInvalidID)
	}
	if patch.Username != nil {
		email := ""
		if patch.Email != nil {
			email = *patch.Email
		}
		if appErr := validateProfile(*patch.Username, email); appErr != nil {
			return nil, appErr
		}
	} else if patch.Email != nil {
		if appErr := validateEmail(*patch.Email); appErr != nil {
			return nil, appErr
		}
	}

	var newHash string
	if password, ok := patch.NewPassword(); ok {
		if appErr := validation.ValidatePassword(password); appErr != nil {
			return nil, appErr
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		newHash = hash
	}

	updated, err := s.repo.Update(ctx, *patch.ID, func(current User) (User, error) {
		next := patch.Apply(current)
		if newHash != "" {
			next.Password = newHash
		}
		return next, nil
	})
	if err != nil {
		return nil, mapStoreError(err, "failed to update user")
	}

	s.logger.Info("user updated", "user_id", updated.ID, "password_changed", newHash != "")
	s.publish(ctx, events.NewRecordEvent(events.EventTypeUserUpdated, []int64{updated.ID}, internal.UserIDFromContext(ctx)))
	return &updated, nil
}

// Delete removes every listed user in one write. Unknown ids are ignored.
func (s *Service) Delete(ctx context.Context, ids []int64) (int, error) {
	removed, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}

	s.logger.Info("users deleted", "requested", len(ids), "removed", len(removed))
	if len(removed) > 0 {
		s.publish(ctx, events.NewRecordEvent(events.EventTypeUserDeleted, removed, internal.UserIDFromContext(ctx)))
	}
	return len(removed), nil
}

// SetPasswordHash stores hash as the user's password without re-hashing it.
func (s *Service) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := s.repo.Update(ctx, id, func(current User) (User, error) {
		current.Password = hash
		return current, nil
	})
	if err != nil {
		return mapStoreError(err, "failed to store password hash")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func validateProfile(username, email string) *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("username", username).Named("Kullanıcı adı").Required().MaxLength(64)
	validator.Field("email", email).Named("E-posta").Email()
	return validator.Validate()
}

func validateEmail(email string) *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("email", email).Named("E-posta").Email()
	return validator.Validate()
}

func mapStoreError(err error, msg string) error {
	switch {
	case errors.Is(err, collection.ErrNotFound):
		return internal.ErrUserNotFound
	case errors.Is(err, collection.ErrConflict):
		return internal.ErrUsernameTaken
	}
	return fmt.Errorf("%s: %w", msg, err)
}
