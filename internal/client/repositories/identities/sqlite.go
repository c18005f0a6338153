package identities

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authority/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put records pubkey for email, replacing any previous key.
func (r *SQLiteRepository) Put(ctx context.Context, email, pubkey string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (email, pubkey) VALUES (?, ?)
		ON CONFLICT(email) DO UPDATE SET pubkey = excluded.pubkey
	`, email, pubkey)
	if err != nil {
		return fmt.Errorf("failed to put identity %s: %w", email, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete identity %s: %w", email, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email, pubkey FROM identities`)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var email, pubkey string
		if err := rows.Scan(&email, &pubkey); err != nil {
			return nil, fmt.Errorf("failed to scan identity row: %w", err)
		}
		result[email] = pubkey
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identity rows: %w", err)
	}

	return result, nil
}
