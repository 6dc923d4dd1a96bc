package service

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"user-service/internal/entity"
	"user-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// UserRepository is the persistence port the service drives. It reports
// absence as (nil, nil); it never raises domain errors.
type UserRepository interface {
	FindAll(ctx context.Context) ([]entity.User, error)
	FindByID(ctx context.Context, id int) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, data entity.NewUser) (*entity.User, error)
	Update(ctx context.Context, id int, patch entity.UserPatch) (*entity.User, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// UserService enforces the domain invariants: existence on read, update and
// delete, and email uniqueness on create and update. All mutations go
// through here; handlers never touch the repository directly.
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}

	return users, nil
}

// GetUserByID retrieves a user by ID, converting absence into NOT_FOUND.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	return user, nil
}

// CreateUser creates a new user, rejecting emails already in use. The
// pre-check races with concurrent creates; the unique index on email backs
// it up and a constraint violation is reported as the same conflict.
func (s *UserService) CreateUser(ctx context.Context, data entity.NewUser) (*entity.User, error) {
	existing, err := s.repo.FindByEmail(ctx, data.Email)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking email uniqueness")
		return nil, err
	}
	if existing != nil {
		return nil, conflict("Email already exists")
	}

	user, err := s.repo.Create(ctx, data)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, conflict("Email already exists")
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return user, nil
}

// UpdateUser applies a partial update. Updating a user's email to its
// current value is not a conflict; only another user holding the email is.
func (s *UserService) UpdateUser(ctx context.Context, id int, patch entity.UserPatch) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	if patch.Email != nil && *patch.Email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, *patch.Email)
		if err != nil {
			logger.Error().Err(err).Msg("Error checking email uniqueness")
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, conflict("Email already exists")
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, conflict("Email already exists")
		}
		logger.Error().Err(err).Msgf("Error updating user %d", id)
		return nil, err
	}
	if updated == nil {
		// Existence was confirmed above, so the row vanished mid-request.
		return nil, internal("Failed to update user")
	}

	return updated, nil
}

// DeleteUser removes a user, converting "nothing deleted" into NOT_FOUND.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error deleting user %d", id)
		return err
	}
	if !deleted {
		return notFound("User not found")
	}

	return nil
}
