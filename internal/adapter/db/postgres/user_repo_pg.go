package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-api/internal/domain/user"
	"user-crud-api/pkg/logger"
)

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
// Every operation issues exactly one parameterized statement; placeholders are
// rebound by the dialector, so the same SQL runs against SQLite in tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

func (r *UserRepoPG) logger(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, r.log)
}

func toEntity(model *UserSchema) *user.User {
	return &user.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Age:       model.Age,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// List retrieves all users ordered by id ascending.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	err := r.db.WithContext(ctx).
		Raw("SELECT id, name, email, age, created_at FROM users ORDER BY id ASC").
		Scan(&models).Error
	if err != nil {
		r.logger(ctx).Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toEntity(&models[i])
	}

	return users, nil
}

// GetByID retrieves a user by their unique ID.
// It returns (nil, nil) when no user exists with the given id.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	tx := r.db.WithContext(ctx).
		Raw("SELECT id, name, email, age, created_at, updated_at FROM users WHERE id = ?", id).
		Scan(&model)
	if tx.Error != nil {
		r.logger(ctx).Error("failed to get user from db", zap.Error(tx.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		r.logger(ctx).Debug("user not found", zap.Int64("id", id))
		return nil, nil
	}

	return toEntity(&model), nil
}

// Create inserts a new user and returns the stored entity with the
// generated id and created_at.
func (r *UserRepoPG) Create(ctx context.Context, name, email string, age *int64) (*user.User, error) {
	var model UserSchema
	tx := r.db.WithContext(ctx).
		Raw("INSERT INTO users (name, email, age) VALUES (?, ?, ?) RETURNING id, name, email, age, created_at",
			name, email, age).
		Scan(&model)
	if tx.Error != nil {
		r.logger(ctx).Error("failed to create user in db", zap.Error(tx.Error), zap.String("email", email))
		return nil, fmt.Errorf("failed to create user: %w", tx.Error)
	}

	r.logger(ctx).Info("user created in db", zap.Int64("id", model.ID))
	return toEntity(&model), nil
}

// Update overwrites all mutable columns of a user and stamps updated_at.
// It returns (nil, nil) when no user exists with the given id.
func (r *UserRepoPG) Update(ctx context.Context, id int64, name, email string, age *int64) (*user.User, error) {
	var model UserSchema
	tx := r.db.WithContext(ctx).
		Raw("UPDATE users SET name = ?, email = ?, age = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING id, name, email, age, created_at, updated_at",
			name, email, age, id).
		Scan(&model)
	if tx.Error != nil {
		r.logger(ctx).Error("failed to update user in db", zap.Error(tx.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to update user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}

	r.logger(ctx).Info("user updated in db", zap.Int64("id", id))
	return toEntity(&model), nil
}

// Delete removes a user by ID and returns the deleted user's identity
// fields as confirmation. It returns (nil, nil) when no row was deleted.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	tx := r.db.WithContext(ctx).
		Raw("DELETE FROM users WHERE id = ? RETURNING id, name, email", id).
		Scan(&model)
	if tx.Error != nil {
		r.logger(ctx).Error("failed to delete user in db", zap.Error(tx.Error), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to delete user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}

	r.logger(ctx).Info("user deleted in db", zap.Int64("id", id))
	return toEntity(&model), nil
}

// EmailExists reports whether any user already holds the given email.
// A non-zero excludeID leaves that user out of the check, which is what
// updates need to allow a user to keep their own address.
func (r *UserRepoPG) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var ids []int64
	q := r.db.WithContext(ctx)

	var err error
	if excludeID != 0 {
		err = q.Raw("SELECT id FROM users WHERE email = ? AND id <> ?", email, excludeID).Scan(&ids).Error
	} else {
		err = q.Raw("SELECT id FROM users WHERE email = ?", email).Scan(&ids).Error
	}
	if err != nil {
		r.logger(ctx).Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return len(ids) > 0, nil
}
