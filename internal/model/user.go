// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The numeric ID is the surrogate key assigned by the database
// (INTEGER PRIMARY KEY, auto-incrementing). Email is the login identity
// and carries a UNIQUE constraint — that constraint, not an application
// level pre-check, is what guarantees no two accounts share an address.
//
// PasswordHash holds the bcrypt output, never the plaintext. The json
// tag "-" keeps it out of any serialized form of the struct.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
