package book

import "time"

// State describes where a book is in its lending lifecycle. It is derived
// from Loan.Holder so the two can never disagree.
type State int

const (
	// Available means the book is on the shelf and can be lent out.
	Available State = iota
	// Lent means the book is currently held by a user.
	Lent
)

// Loan tracks the lending status of a single book. The zero value is a book
// that has never been lent. Only the most recent lend/return cycle is kept:
// after a return, LentAt still holds the date of the previous loan and is
// overwritten on the next one.
type Loan struct {
	Holder     string    // Holder is the id of the user holding the book, empty when available
	LentAt     time.Time // LentAt is stamped when the book was last lent out
	ReturnedAt time.Time // ReturnedAt is stamped when the book was last returned
}

// State returns the lifecycle state encoded by the loan.
func (l Loan) State() State {
	if l.Holder == "" {
		return Available
	}
	return Lent
}

// Book represents a book in the catalog.
type Book struct {
	ID            string // ID is the unique identifier for the book
	Title         string // Title is required at creation
	Author        string // Author is required at creation
	PublishedDate string // PublishedDate is optional, kept as supplied by the client
	ISBN          string // ISBN is optional
	Genre         string // Genre is optional
	Loan          Loan   // Loan is the current lending status
}
