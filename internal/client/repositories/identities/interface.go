// Package identities stores the email → public key bindings the CLI
// believes it holds. Sync sends them to the server for reconciliation.
package identities

import "context"

type Repository interface {
	Put(ctx context.Context, email, pubkey string) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) (map[string]string, error)
}
