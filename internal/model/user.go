// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Both username and email carry UNIQUE constraints in the database — either
// one identifies exactly one account. Login uses the email; the username is
// the display identity.
//
// WHY json:"-" ON PasswordHash?
// The hash must never leave the server. Tagging the field with "-" tells
// encoding/json to skip it entirely, so even if a handler serializes a whole
// User (as /api/me does), the hash cannot leak into a response body.
// Enforcing this at the type level beats remembering to strip the field in
// every handler.
//
// The hash is opaque: it is only ever produced by auth.PasswordService.Hash
// and only ever consumed by auth.PasswordService.Verify. No other code
// should interpret its contents.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt hash — never serialized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the subset of User returned inside the login response.
// Keeping it a separate struct (rather than serializing User with omitted
// fields) makes the wire shape explicit: {"username":..., "email":...}.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Email: u.Email}
}
