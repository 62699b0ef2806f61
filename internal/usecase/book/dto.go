package book

import "time"

// CreateBookRequest represents the request payload for creating a new book.
type CreateBookRequest struct {
	Title         string `validate:"required"`
	Author        string `validate:"required"`
	PublishedDate string
	ISBN          string
	Genre         string
}

// UpdateBookRequest represents the request payload for updating an existing
// book. Empty fields are treated as "not provided" and left untouched, so an
// update cannot clear a field back to empty.
type UpdateBookRequest struct {
	ID            string `validate:"required"`
	Title         string
	Author        string
	PublishedDate string
	ISBN          string
	Genre         string
}

// LendBookRequest represents the request to lend a book to a user.
type LendBookRequest struct {
	BookID string `validate:"required"`
	UserID string `validate:"required"`
}

// ReturnBookRequest represents the request to return a lent book.
type ReturnBookRequest struct {
	BookID string `validate:"required"`
	UserID string `validate:"required"`
}

// Book represents a book DTO (Data Transfer Object) for API responses.
// Optional values are zero when absent; the transport layer derives the
// nullable wire fields from them.
type Book struct {
	ID            string
	Title         string
	Author        string
	PublishedDate string
	ISBN          string
	Genre         string
	LentTo        string    // empty when the book is available
	LentDate      time.Time // zero when the book has never been lent
	ReturnDate    time.Time // zero until the book has been returned once
}

// LendBookResponse carries the updated book and a confirmation message
// naming the book title and the borrower.
type LendBookResponse struct {
	Message string
	Book    Book
}

// ReturnedBook is the trimmed projection of a book included in a return
// confirmation.
type ReturnedBook struct {
	ID     string
	Title  string
	LentTo string // always empty after a successful return
}

// ReturnBookResponse carries the confirmation message naming the returning
// user and the trimmed book projection.
type ReturnBookResponse struct {
	Message string
	Book    ReturnedBook
}
