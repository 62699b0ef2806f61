package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestService(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	svc := New(mockRepo, zaptest.NewLogger(t))
	return svc, mockRepo
}

func TestCreateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "a@x.com").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Alice" && u.Email == "a@x.com" && !u.JoinedDate.IsZero()
	})).Return(nil)

	resp, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Alice", Email: "a@x.com"})

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ID, "user-"))
	assert.WithinDuration(t, time.Now().UTC(), resp.JoinedDate, time.Minute)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_MissingFields(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	for _, in := range []CreateUserRequest{
		{Email: "a@x.com"},
		{Name: "Alice"},
		{},
	} {
		resp, err := svc.CreateUser(ctx, in)
		assert.Nil(t, resp)
		assert.EqualError(t, err, "Name and email are required")
	}

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	existing := &domain.User{ID: "user-1", Name: "Alice", Email: "a@x.com"}
	mockRepo.On("GetByEmail", ctx, "a@x.com").Return(existing, nil)

	resp, err := svc.CreateUser(ctx, CreateUserRequest{Name: "Mallory", Email: "a@x.com"})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "Email already in use")
	var cerr *apperrors.ConflictError
	assert.ErrorAs(t, err, &cerr)
	// the original record is never touched
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateUser_NoFieldsRejected(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: "user-1"})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "At least one field (name or email) must be provided for update")
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateUser_DuplicateEmailExcludesSelf(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", Name: "Alice", Email: "a@x.com"}
	mockRepo.On("GetByID", ctx, "user-1").Return(stored, nil)
	// the email resolves to the record being updated itself
	mockRepo.On("GetByEmail", ctx, "a@x.com").Return(stored, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Alice Smith" && u.Email == "a@x.com"
	})).Return(nil)

	resp, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: "user-1", Name: "Alice Smith", Email: "a@x.com"})

	assert.NoError(t, err)
	assert.Equal(t, "Alice Smith", resp.Name)
}

func TestUpdateUser_DuplicateEmailOtherUser(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", Name: "Alice", Email: "a@x.com"}
	other := &domain.User{ID: "user-2", Name: "Bob", Email: "b@x.com"}
	mockRepo.On("GetByID", ctx, "user-1").Return(stored, nil)
	mockRepo.On("GetByEmail", ctx, "b@x.com").Return(other, nil)

	resp, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: "user-1", Email: "b@x.com"})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "Email is already in use by another user")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateUser_JoinedDateImmutable(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	stored := &domain.User{ID: "user-1", Name: "Alice", Email: "a@x.com", JoinedDate: joined}
	mockRepo.On("GetByID", ctx, "user-1").Return(stored, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.JoinedDate.Equal(joined)
	})).Return(nil)

	resp, err := svc.UpdateUser(ctx, UpdateUserRequest{ID: "user-1", Name: "Alice Smith"})

	assert.NoError(t, err)
	assert.True(t, resp.JoinedDate.Equal(joined))
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.NewNotFoundError("user", "User not found"))

	resp, err := svc.GetUser(ctx, "missing")

	assert.Nil(t, resp)
	assert.EqualError(t, err, "User not found")
}

func TestListUsers_PreservesOrder(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("GetAll", ctx).Return([]domain.User{
		{ID: "user-1", Name: "Alice"},
		{ID: "user-2", Name: "Bob"},
	}, nil)

	resp, err := svc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, "Alice", resp[0].Name)
	assert.Equal(t, "Bob", resp[1].Name)
}

func TestDeleteUser_Success(t *testing.T) {
	svc, mockRepo := setupTestService(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "user-1").Return(nil)

	assert.NoError(t, svc.DeleteUser(ctx, "user-1"))
	mockRepo.AssertExpectations(t)
}
