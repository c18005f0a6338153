// Package services contains server-side business logic. AccountService is
// the transactional account store; IdentityService drives staging,
// verification, authentication and key sync on top of it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authority/internal/common"
	"github.com/dmitrijs2005/authority/internal/cryptox"
	"github.com/dmitrijs2005/authority/internal/dbx"
	"github.com/dmitrijs2005/authority/internal/logging"
	"github.com/dmitrijs2005/authority/internal/server/models"
	"github.com/dmitrijs2005/authority/internal/server/repositories/repomanager"
)

// AccountService owns users, emails and keys. Every operation that writes
// more than one row runs inside a single transaction.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

// NewAccountService constructs an AccountService over db.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "accounts"),
		now:         time.Now,
	}
}

// ResolveUserByEmail returns the id of the user owning address, or
// common.ErrUnknownEmail.
func (s *AccountService) ResolveUserByEmail(ctx context.Context, address string) (int64, error) {
	id, err := s.repomanager.Accounts(s.db).GetUserIDByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrUnknownEmail
		}
		return 0, fmt.Errorf("error resolving user: %w", err)
	}
	return id, nil
}

// EmailExists reports whether address is bound to any user.
func (s *AccountService) EmailExists(ctx context.Context, address string) (bool, error) {
	ok, err := s.repomanager.Accounts(s.db).EmailExists(ctx, address)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return ok, nil
}

// CheckCredentials reports whether password matches the credential of the
// user owning address. An unknown address is a mismatch, not an error.
func (s *AccountService) CheckCredentials(ctx context.Context, address, password string) (bool, error) {
	stored, err := s.repomanager.Accounts(s.db).GetPasswordByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading credentials: %w", err)
	}

	ok, err := cryptox.VerifyPassword(stored, password)
	if err != nil {
		s.logger.Warn(ctx, "stored credential is unreadable", "email", address, "error", err)
		return false, nil
	}
	return ok, nil
}

// CreateAccount inserts a user, its first email and that email's key as
// one transaction. An address that is already bound yields
// common.ErrConflict and nothing is written.
func (s *AccountService) CreateAccount(ctx context.Context, password, email, pubkey string) error {
	expires := models.KeyExpiry(s.now())

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		userID, err := repo.CreateUser(ctx, password)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		emailID, err := repo.CreateEmail(ctx, userID, email)
		if err != nil {
			return fmt.Errorf("error creating email: %w", err)
		}
		if _, err := repo.CreateKey(ctx, emailID, pubkey, expires); err != nil {
			return fmt.Errorf("error creating key: %w", err)
		}
		return nil
	})
}

// AddEmail binds newAddress and its key to the user owning
// existingAddress, in one transaction. An unknown existingAddress yields
// common.ErrUnknownEmail; an already bound newAddress yields
// common.ErrConflict.
func (s *AccountService) AddEmail(ctx context.Context, existingAddress, newAddress, pubkey string) error {
	expires := models.KeyExpiry(s.now())

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		userID, err := repo.GetUserIDByEmail(ctx, existingAddress)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUnknownEmail
			}
			return fmt.Errorf("error resolving user: %w", err)
		}
		emailID, err := repo.CreateEmail(ctx, userID, newAddress)
		if err != nil {
			return fmt.Errorf("error creating email: %w", err)
		}
		if _, err := repo.CreateKey(ctx, emailID, pubkey, expires); err != nil {
			return fmt.Errorf("error creating key: %w", err)
		}
		return nil
	})
}

// ListEmails returns every address owned by userID.
func (s *AccountService) ListEmails(ctx context.Context, userID int64) ([]string, error) {
	emails, err := s.repomanager.Accounts(s.db).ListEmails(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing emails: %w", err)
	}
	return emails, nil
}
