package model

import "time"

// Todo is a single list item belonging to exactly one user.
//
// UserID references users.id with ON DELETE CASCADE: removing an account
// removes every todo it owns, so an orphaned row can never exist.
// Completed defaults to false on creation and is the only mutable field.
type Todo struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
