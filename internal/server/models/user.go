// Package models defines server-side data models persisted in the database.
package models

// User is an account. Password holds the encoded credential produced by
// cryptox.HashPassword.
type User struct {
	ID       int64
	Password string
}
