package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authority/internal/common"
	"github.com/dmitrijs2005/authority/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// CreateUser inserts a user with the encoded password and returns its id.
func (r *PostgresRepository) CreateUser(ctx context.Context, password string) (int64, error) {
	query :=
		`INSERT INTO users (password)
		 VALUES ($1)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, password).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// CreateEmail binds address to userID. The uniqueness check and the insert
// are one statement; an existing address yields common.ErrConflict.
func (r *PostgresRepository) CreateEmail(ctx context.Context, userID int64, address string) (int64, error) {
	query :=
		`INSERT INTO emails (user_id, address)
		 VALUES ($1, $2)
		 ON CONFLICT (address) DO NOTHING
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, userID, address).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			return 0, common.ErrConflict
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// CreateKey stores a public key for emailID. expires is epoch milliseconds.
func (r *PostgresRepository) CreateKey(ctx context.Context, emailID int64, key string, expires int64) (int64, error) {
	query :=
		`INSERT INTO keys (email_id, key, expires)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, emailID, key, expires).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// GetUserIDByEmail returns the id of the user owning address.
func (r *PostgresRepository) GetUserIDByEmail(ctx context.Context, address string) (int64, error) {
	query :=
		`SELECT users.id FROM emails
		 JOIN users ON users.id = emails.user_id
		 WHERE emails.address = $1
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, address).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// GetPasswordByEmail returns the encoded credential of the user owning
// address.
func (r *PostgresRepository) GetPasswordByEmail(ctx context.Context, address string) (string, error) {
	query :=
		`SELECT users.password FROM emails
		 JOIN users ON users.id = emails.user_id
		 WHERE emails.address = $1
		 `

	var password string
	if err := r.db.QueryRowContext(ctx, query, address).Scan(&password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return password, nil
}

// EmailExists reports whether address is bound to any user.
func (r *PostgresRepository) EmailExists(ctx context.Context, address string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM emails WHERE address = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, address).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// ListEmails returns every address owned by userID in insertion order.
func (r *PostgresRepository) ListEmails(ctx context.Context, userID int64) ([]string, error) {
	query :=
		`SELECT address FROM emails
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		emails = append(emails, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return emails, nil
}
