package models

// Email is an address bound to exactly one user. Addresses are unique
// across all users.
type Email struct {
	ID      int64
	UserID  int64
	Address string
}
