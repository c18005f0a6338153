package client

import (
	"context"
)

// SyncResult is the server's answer to a key sync.
type SyncResult struct {
	UnknownEmails []string
	KeyRefresh    []string
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	EmailKnown(ctx context.Context, email string) (bool, error)
	IsStaged(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, email, password, pubkey string) error
	Verify(ctx context.Context, secret string) error
	Login(ctx context.Context, email, password string) (string, error)
	SetAccessToken(token string)
	AddEmail(ctx context.Context, email, pubkey string) error
	Sync(ctx context.Context, identities map[string]string) (*SyncResult, error)
}
