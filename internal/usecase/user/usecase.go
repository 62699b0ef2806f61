package user

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., JSON files, a database) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error                  // Create a new user
	GetByID(ctx context.Context, id string) (*domain.User, error)      // Retrieve user by id
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by email, (nil, nil) when absent
	GetAll(ctx context.Context) ([]domain.User, error)                 // List users in insertion order
	Update(ctx context.Context, u *domain.User) error                  // Update existing user
	Delete(ctx context.Context, id string) error                       // Delete user by id, no-op when absent
}

// Service implements the business logic for user management operations.
type Service struct {
	repo     Repository          // Repository for data access
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation

	// mu serializes check-then-write sequences so two concurrent creates
	// cannot both pass the email uniqueness scan.
	mu sync.Mutex
}

// New creates a new instance of Service with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

// CreateUser creates a new user after validating the request and checking
// email uniqueness. The joined date is server-stamped and immutable.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	s.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.NewValidationError("Name and email are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		s.log.Warn("email already in use", zap.String("email", in.Email))
		return nil, apperrors.NewConflictError("Email already in use")
	}

	u := &domain.User{
		ID:         "user-" + uuid.NewString(),
		Name:       in.Name,
		Email:      in.Email,
		JoinedDate: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// UpdateUser updates an existing user. Only the fields that were supplied are
// merged; an empty field is treated as "not provided". The email uniqueness
// check excludes the record being updated.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	s.log.Info("updating user", zap.String("id", in.ID), zap.String("name", in.Name), zap.String("email", in.Email))

	if in.Name == "" && in.Email == "" {
		return nil, apperrors.NewValidationError("At least one field (name or email) must be provided for update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Warn("user not found for update", zap.String("id", in.ID))
		return nil, err
	}

	if in.Email != "" {
		existing, err := s.repo.GetByEmail(ctx, in.Email)
		if err != nil {
			s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
			return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
		}
		if existing != nil && existing.ID != in.ID {
			s.log.Warn("email already in use", zap.String("email", in.Email), zap.String("existing_id", existing.ID))
			return nil, apperrors.NewConflictError("Email is already in use by another user")
		}
		u.Email = in.Email
	}
	if in.Name != "" {
		u.Name = in.Name
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(u), nil
}

// DeleteUser deletes a user by id. Deleting an absent user succeeds, and a
// user holding a loan may be deleted; the book keeps a dangling reference.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.log.Info("deleting user", zap.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(u), nil
}

// ListUsers returns all users in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	domainUsers, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = *toDTO(&du)
	}
	return users, nil
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		JoinedDate: u.JoinedDate,
	}
}
