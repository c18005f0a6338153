// Package accounts provides the statement-level storage of users, their
// emails and the public keys uploaded for those emails.
package accounts

import (
	"context"
)

// Repository is the set of single statements the account services compose
// into transactions. Lookups that find nothing return common.ErrorNotFound;
// inserts that hit the address uniqueness constraint return
// common.ErrConflict.
type Repository interface {
	CreateUser(ctx context.Context, password string) (int64, error)
	CreateEmail(ctx context.Context, userID int64, address string) (int64, error)
	CreateKey(ctx context.Context, emailID int64, key string, expires int64) (int64, error)

	GetUserIDByEmail(ctx context.Context, address string) (int64, error)
	GetPasswordByEmail(ctx context.Context, address string) (string, error)
	EmailExists(ctx context.Context, address string) (bool, error)
	ListEmails(ctx context.Context, userID int64) ([]string, error)
}
