package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID        int64      // ID is the unique identifier assigned by the storage layer
	Name      string     // Name is the full name of the user
	Email     string     // Email is the unique email address of the user
	Age       *int64     // Age is optional and may be nil
	CreatedAt time.Time  // CreatedAt is set once at creation
	UpdatedAt *time.Time // UpdatedAt is nil until the first update
}
