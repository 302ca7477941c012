package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-crud-api/internal/domain/user"
	apperrors "user-crud-api/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, name, email string, age *int64) (*domain.User, error) {
	args := m.Called(ctx, name, email, age)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, name, email string, age *int64) (*domain.User, error) {
	args := m.Called(ctx, id, name, email, age)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func setupService(t *testing.T) (*Service, *MockRepository) {
	repo := new(MockRepository)
	return New(repo, zaptest.NewLogger(t)), repo
}

func TestCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo := setupService(t)

		created := &domain.User{ID: 1, Name: "Ann", Email: "ann@x.com", CreatedAt: time.Now()}
		repo.On("EmailExists", mock.Anything, "ann@x.com", int64(0)).Return(false, nil)
		repo.On("Create", mock.Anything, "Ann", "ann@x.com", (*int64)(nil)).Return(created, nil)

		u, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Ann", Email: "ann@x.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Nil(t, u.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("missing name and email", func(t *testing.T) {
		svc, repo := setupService(t)

		_, err := svc.CreateUser(context.Background(), CreateUserInput{})
		require.Error(t, err)
		assert.Equal(t, "Name and email are required", err.Error())

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		repo.AssertNotCalled(t, "EmailExists")
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("missing name only", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "ann@x.com"})
		require.Error(t, err)
		assert.Equal(t, "Name and email are required", err.Error())
	})

	t.Run("invalid email format", func(t *testing.T) {
		svc, repo := setupService(t)

		_, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Ann", Email: "not-an-email"})
		require.Error(t, err)
		assert.Equal(t, "Invalid email format", err.Error())
		repo.AssertNotCalled(t, "EmailExists")
	})

	t.Run("minimal valid email accepted", func(t *testing.T) {
		svc, repo := setupService(t)

		created := &domain.User{ID: 2, Name: "B", Email: "a@b.co"}
		repo.On("EmailExists", mock.Anything, "a@b.co", int64(0)).Return(false, nil)
		repo.On("Create", mock.Anything, "B", "a@b.co", (*int64)(nil)).Return(created, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "B", Email: "a@b.co"})
		assert.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("EmailExists", mock.Anything, "ann@x.com", int64(0)).Return(true, nil)

		_, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Ann", Email: "ann@x.com"})
		require.Error(t, err)
		assert.Equal(t, "Email already exists", err.Error())

		var ae *apperrors.AlreadyExistsError
		assert.ErrorAs(t, err, &ae)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("storage error propagates", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("EmailExists", mock.Anything, "ann@x.com", int64(0)).Return(false, errors.New("db down"))

		_, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "Ann", Email: "ann@x.com"})
		require.Error(t, err)

		var statuser apperrors.HTTPStatuser
		assert.False(t, errors.As(err, &statuser))
	})
}

func TestGetUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@x.com"}, nil)

		u, err := svc.GetUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Ann", u.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		_, err := svc.GetUser(context.Background(), 99)
		require.Error(t, err)
		assert.Equal(t, "User not found", err.Error())

		var nf *apperrors.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo := setupService(t)

		now := time.Now()
		age := int64(30)
		updated := &domain.User{ID: 1, Name: "Ann K", Email: "ann@x.com", Age: &age, CreatedAt: now.Add(-time.Hour), UpdatedAt: &now}
		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
		repo.On("EmailExists", mock.Anything, "ann@x.com", int64(1)).Return(false, nil)
		repo.On("Update", mock.Anything, int64(1), "Ann K", "ann@x.com", &age).Return(updated, nil)

		u, err := svc.UpdateUser(context.Background(), 1, UpdateUserInput{Name: "Ann K", Email: "ann@x.com", Age: &age})
		require.NoError(t, err)
		require.NotNil(t, u.UpdatedAt)
		assert.False(t, u.UpdatedAt.Before(u.CreatedAt))
	})

	t.Run("not found wins over invalid body", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		// Body is invalid too, yet the answer must be 404, not 400.
		_, err := svc.UpdateUser(context.Background(), 99, UpdateUserInput{})
		require.Error(t, err)
		assert.Equal(t, "User not found", err.Error())
		repo.AssertNotCalled(t, "EmailExists")
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)

		_, err := svc.UpdateUser(context.Background(), 1, UpdateUserInput{})
		require.Error(t, err)
		assert.Equal(t, "Name and email are required", err.Error())
	})

	t.Run("email taken by another user", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
		repo.On("EmailExists", mock.Anything, "bob@x.com", int64(1)).Return(true, nil)

		_, err := svc.UpdateUser(context.Background(), 1, UpdateUserInput{Name: "Ann", Email: "bob@x.com"})
		require.Error(t, err)
		assert.Equal(t, "Email already exists for another user", err.Error())
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("keeping own email is allowed", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Email: "ann@x.com"}, nil)
		repo.On("EmailExists", mock.Anything, "ann@x.com", int64(1)).Return(false, nil)
		repo.On("Update", mock.Anything, int64(1), "Ann", "ann@x.com", (*int64)(nil)).
			Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@x.com"}, nil)

		_, err := svc.UpdateUser(context.Background(), 1, UpdateUserInput{Name: "Ann", Email: "ann@x.com"})
		assert.NoError(t, err)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("success returns identity fields", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
		repo.On("Delete", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Ann", Email: "ann@x.com"}, nil)

		u, err := svc.DeleteUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		assert.Equal(t, "Ann", u.Name)
		assert.Equal(t, "ann@x.com", u.Email)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		_, err := svc.DeleteUser(context.Background(), 99)
		require.Error(t, err)
		assert.Equal(t, "User not found", err.Error())
		repo.AssertNotCalled(t, "Delete")
	})
}

func TestListUsers(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("List", mock.Anything).Return([]domain.User{}, nil)

		users, err := svc.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, repo := setupService(t)

		repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.ListUsers(context.Background())
		assert.Error(t, err)
	})
}
