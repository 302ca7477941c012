package user

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-crud-api/internal/domain/user"
	apperrors "user-crud-api/pkg/errors"
	"user-crud-api/pkg/logger"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer; lookups return (nil, nil) when the row
// is absent so callers can tell "not found" apart from storage failure.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)                                            // List all users ordered by id
	GetByID(ctx context.Context, id int64) (*domain.User, error)                                // Retrieve user by ID
	Create(ctx context.Context, name, email string, age *int64) (*domain.User, error)           // Insert a new user
	Update(ctx context.Context, id int64, name, email string, age *int64) (*domain.User, error) // Overwrite an existing user
	Delete(ctx context.Context, id int64) (*domain.User, error)                                 // Delete user by ID
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)               // Check email uniqueness
}

// emailPattern is the basic local@domain.tld shape the API accepts.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for required-field checks
}

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.log)
}

// checkNameEmail validates the presence and shape of the name/email pair.
// The messages are part of the API contract, so they are produced here
// rather than taken from the validator's own formatter.
func (s *Service) checkNameEmail(ctx context.Context, in any, email string) error {
	if err := s.validate.Struct(in); err != nil {
		s.logger(ctx).Warn("validate failed", zap.Error(err))
		return apperrors.NewValidationError("", "Name and email are required")
	}
	if !emailPattern.MatchString(email) {
		s.logger(ctx).Warn("invalid email format", zap.String("email", email))
		return apperrors.NewValidationError("email", "Invalid email format")
	}
	return nil
}

// ListUsers retrieves all users ordered by id ascending.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger(ctx).Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger(ctx).Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		s.logger(ctx).Warn("user not found", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	return u, nil
}

// CreateUser creates a new user after validating the input and checking
// email uniqueness. The existence check and the insert are two separate
// round trips; the unique index on email is the backstop for concurrent
// creates racing past the check.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	s.logger(ctx).Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.checkNameEmail(ctx, in, in.Email); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, in.Email, 0)
	if err != nil {
		s.logger(ctx).Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if exists {
		s.logger(ctx).Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewAlreadyExistsError("email", "Email already exists")
	}

	u, err := s.repo.Create(ctx, in.Name, in.Email, in.Age)
	if err != nil {
		s.logger(ctx).Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return u, nil
}

// UpdateUser overwrites an existing user's mutable fields. The existence
// check runs before any validation so an unknown id answers 404 even for
// an invalid body.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error) {
	s.logger(ctx).Info("updating user", zap.Int64("id", id), zap.String("name", in.Name), zap.String("email", in.Email))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger(ctx).Error("failed to load user for update", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if existing == nil {
		s.logger(ctx).Warn("user not found for update", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}

	if err := s.checkNameEmail(ctx, in, in.Email); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, in.Email, id)
	if err != nil {
		s.logger(ctx).Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if exists {
		s.logger(ctx).Warn("email already exists for another user", zap.String("email", in.Email), zap.Int64("id", id))
		return nil, apperrors.NewAlreadyExistsError("email", "Email already exists for another user")
	}

	u, err := s.repo.Update(ctx, id, in.Name, in.Email, in.Age)
	if err != nil {
		s.logger(ctx).Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		// Row disappeared between the existence check and the update.
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	return u, nil
}

// DeleteUser deletes a user by ID and returns the deleted user's identity
// fields as confirmation.
func (s *Service) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	s.logger(ctx).Info("deleting user", zap.Int64("id", id))

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger(ctx).Error("failed to load user for delete", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if existing == nil {
		s.logger(ctx).Warn("user not found for delete", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger(ctx).Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if deleted == nil {
		return nil, apperrors.NewNotFoundError("user", "User not found")
	}
	return deleted, nil
}
