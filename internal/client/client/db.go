package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/authority/internal/client/migrations"
	"github.com/dmitrijs2005/authority/internal/client/repositories/identities"
	"github.com/dmitrijs2005/authority/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authority/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories is the CLI's local store.
type Repositories struct {
	Metadata   metadata.Repository
	Identities identities.Repository
	DB         *sql.DB
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite store at path, creating its directory if
// needed, and brings its schema up to date.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("local db migrations: %w", err)
	}

	return &Repositories{
		Metadata:   metadata.NewSQLiteRepository(db),
		Identities: identities.NewSQLiteRepository(db),
		DB:         db,
	}, nil
}
