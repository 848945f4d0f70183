// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY json:"-" ON PasswordHash?
// The hash must never appear in any API response. Rather than trusting every
// handler to strip it, we make non-exposure a property of the type itself:
// encoding/json skips fields tagged "-", so even a careless
// json.NewEncoder(w).Encode(user) cannot leak it. The only code that ever sees
// the hash is the login path, which reads it through a dedicated repository
// method (GetByEmailWithHash) instead of a runtime "include hash" flag.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`          // Display name, defaulted if absent
	About        string    `json:"about"     db:"about"`         // Short bio, defaulted if absent
	Avatar       string    `json:"avatar"    db:"avatar"`        // Profile picture URL, defaulted if absent
	Email        string    `json:"email"     db:"email"`         // Unique login key, immutable after signup
	PasswordHash string    `json:"-"         db:"password_hash"` // bcrypt digest, write-only
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
