package user

// CreateUserInput represents the input for creating a new user.
type CreateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
	Age   *int64
}

// UpdateUserInput represents the input for updating an existing user.
// All mutable columns are overwritten in full; there is no sparse update.
type UpdateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
	Age   *int64
}
