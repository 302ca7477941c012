package postgres

import "time"

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`           // Unique identifier with auto-increment
	Name      string     `gorm:"not null"`                           // User's full name (required)
	Email     string     `gorm:"not null;uniqueIndex"`               // User's unique email address (required, unique)
	Age       *int64     // Optional age, nullable
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"` // Set by the column default on insert
	UpdatedAt *time.Time // Null until the first update
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}
