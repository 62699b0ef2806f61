package user

import "time"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

// UpdateUserRequest represents the request payload for updating an existing
// user. Empty fields are treated as "not provided" and left untouched.
type UpdateUserRequest struct {
	ID    string `validate:"required"`
	Name  string
	Email string
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID         string
	Name       string
	Email      string
	JoinedDate time.Time
}
