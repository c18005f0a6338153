package models

import "time"

// KeyLifetime is how long an uploaded public key is valid.
const KeyLifetime = 14 * 24 * time.Hour

// Key is a public key uploaded for an email. Expires is in epoch
// milliseconds and is always set on insert.
type Key struct {
	ID      int64
	EmailID int64
	Key     string
	Expires int64
}

// KeyExpiry returns the Expires value for a key created at t.
func KeyExpiry(t time.Time) int64 {
	return t.Add(KeyLifetime).UnixMilli()
}

// ExpiresAt converts Expires to a time.Time.
func (k Key) ExpiresAt() time.Time {
	return time.UnixMilli(k.Expires)
}
