package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}
