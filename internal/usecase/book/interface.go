package book

import "context"

// Usecase defines the interface for book business logic operations,
// including the lending workflow.
type Usecase interface {
	CreateBook(ctx context.Context, in CreateBookRequest) (*Book, error)
	UpdateBook(ctx context.Context, in UpdateBookRequest) (*Book, error)
	DeleteBook(ctx context.Context, id string) error
	GetBook(ctx context.Context, id string) (*Book, error)
	ListBooks(ctx context.Context) ([]Book, error)
	LendBook(ctx context.Context, in LendBookRequest) (*LendBookResponse, error)
	ReturnBook(ctx context.Context, in ReturnBookRequest) (*ReturnBookResponse, error)
}
