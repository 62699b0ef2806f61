package user

import "time"

// User represents a library member.
type User struct {
	ID         string    // ID is the unique identifier for the user
	Name       string    // Name is the display name of the user
	Email      string    // Email is the unique email address of the user
	JoinedDate time.Time // JoinedDate is stamped at creation and never changes
}
