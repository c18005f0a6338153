package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/authority/internal/common"
	"github.com/dmitrijs2005/authority/internal/cryptox"
	"github.com/dmitrijs2005/authority/internal/logging"
	"github.com/dmitrijs2005/authority/internal/server/auth"
	"github.com/dmitrijs2005/authority/internal/server/config"
	"github.com/dmitrijs2005/authority/internal/server/reconcile"
	"github.com/dmitrijs2005/authority/internal/server/staging"
)

// AccountStore is the account storage IdentityService relies on.
// *AccountService implements it.
type AccountStore interface {
	ResolveUserByEmail(ctx context.Context, address string) (int64, error)
	EmailExists(ctx context.Context, address string) (bool, error)
	CheckCredentials(ctx context.Context, address, password string) (bool, error)
	CreateAccount(ctx context.Context, password, email, pubkey string) error
	AddEmail(ctx context.Context, existingAddress, newAddress, pubkey string) error
	ListEmails(ctx context.Context, userID int64) ([]string, error)
}

// NewUser is a request to create an account.
type NewUser struct {
	Email    string
	Password string
	PubKey   string
}

// IdentityService implements the identity operations exposed to the
// transport: staging, verification, authentication and key sync.
//
// A staged operation is consumed before the store is touched, so a failed
// or interrupted verification is never retried with the same secret; the
// client has to stage again.
type IdentityService struct {
	accounts                    AccountStore
	registry                    *staging.Registry
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashPassword                func(string) string
}

// NewIdentityService wires an IdentityService to its store and registry.
func NewIdentityService(a AccountStore, r *staging.Registry, l logging.Logger, cfg *config.Config) *IdentityService {
	return &IdentityService{
		accounts:                    a,
		registry:                    r,
		logger:                      l.With("module", "identity"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashPassword:                cryptox.HashPassword,
	}
}

func validateAddress(address string) error {
	a, err := mail.ParseAddress(address)
	if err != nil || a.Address != address {
		return fmt.Errorf("%w: bad email address %q", common.ErrValidation, address)
	}
	return nil
}

func validateNotEmpty(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", common.ErrValidation, name)
	}
	return nil
}

// EmailKnown reports whether address belongs to a committed account.
func (s *IdentityService) EmailKnown(ctx context.Context, address string) (bool, error) {
	return s.accounts.EmailExists(ctx, address)
}

// IsStaged reports whether a verification is pending for address.
func (s *IdentityService) IsStaged(address string) bool {
	return s.registry.IsStaged(address)
}

// AddEmailToAccount binds newAddress to the owner of existingAddress.
func (s *IdentityService) AddEmailToAccount(ctx context.Context, existingAddress, newAddress, pubkey string) error {
	err := s.accounts.AddEmail(ctx, existingAddress, newAddress, pubkey)
	if errors.Is(err, common.ErrConflict) {
		return common.ErrEmailAlreadyExists
	}
	return err
}

// StageUser holds an account creation until its secret is presented and
// returns that secret. The password is hashed before it is staged.
func (s *IdentityService) StageUser(ctx context.Context, u NewUser) (string, error) {
	if err := validateAddress(u.Email); err != nil {
		return "", err
	}
	if err := validateNotEmpty("password", u.Password); err != nil {
		return "", err
	}
	if err := validateNotEmpty("pubkey", u.PubKey); err != nil {
		return "", err
	}

	secret, err := s.registry.Stage(staging.AddAccount{
		Email:    u.Email,
		PubKey:   u.PubKey,
		Password: s.hashPassword(u.Password),
	})
	if err != nil {
		return "", fmt.Errorf("error staging account: %w", err)
	}

	s.logger.Info(ctx, "staged account", "email", u.Email)
	return secret, nil
}

// StageEmail holds the addition of newAddress to the account owning
// existingAddress and returns the secret that commits it.
func (s *IdentityService) StageEmail(ctx context.Context, existingAddress, newAddress, pubkey string) (string, error) {
	if err := validateAddress(newAddress); err != nil {
		return "", err
	}
	if err := validateNotEmpty("pubkey", pubkey); err != nil {
		return "", err
	}

	secret, err := s.registry.Stage(staging.AddEmail{
		ExistingEmail: existingAddress,
		Email:         newAddress,
		PubKey:        pubkey,
	})
	if err != nil {
		return "", fmt.Errorf("error staging email: %w", err)
	}

	s.logger.Info(ctx, "staged email", "email", newAddress, "existing_email", existingAddress)
	return secret, nil
}

// GotVerificationSecret commits the operation staged under secret.
func (s *IdentityService) GotVerificationSecret(ctx context.Context, secret string) error {
	op, ok := s.registry.Resolve(secret)
	if !ok {
		return common.ErrUnknownSecret
	}

	var err error
	switch o := op.(type) {
	case staging.AddAccount:
		err = s.accounts.CreateAccount(ctx, o.Password, o.Email, o.PubKey)
		if errors.Is(err, common.ErrConflict) {
			err = common.ErrEmailAlreadyExists
		}
	case staging.AddEmail:
		err = s.AddEmailToAccount(ctx, o.ExistingEmail, o.Email, o.PubKey)
	default:
		s.logger.Error(ctx, "staged operation of unknown kind", "type", fmt.Sprintf("%T", op))
		return common.ErrorInternal
	}

	if err != nil {
		s.logger.Warn(ctx, "verification failed", "email", op.CandidateEmail(), "error", err)
		return err
	}

	s.logger.Info(ctx, "verified", "email", op.CandidateEmail())
	return nil
}

// CheckAuth reports whether password is valid for address. Unknown
// addresses and wrong passwords both give false with a nil error.
func (s *IdentityService) CheckAuth(ctx context.Context, address, password string) (bool, error) {
	return s.accounts.CheckCredentials(ctx, address, password)
}

// Login checks credentials and returns an access token bound to address.
func (s *IdentityService) Login(ctx context.Context, address, password string) (string, error) {
	ok, err := s.CheckAuth(ctx, address, password)
	if err != nil {
		s.logger.Error(ctx, "credential check failed", "email", address, "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(address, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "email", address, "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return token, nil
}

// GetSyncResponse reconciles the client's identities against the emails of
// the account owning address.
func (s *IdentityService) GetSyncResponse(ctx context.Context, address string, identities map[string]string) (*reconcile.Response, error) {
	userID, err := s.accounts.ResolveUserByEmail(ctx, address)
	if err != nil {
		return nil, err
	}

	own, err := s.accounts.ListEmails(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := reconcile.Reconcile(own, identities)
	s.logger.Debug(ctx, "sync", "email", address, "unknown", len(resp.UnknownEmails), "refresh", len(resp.KeyRefresh))
	return &resp, nil
}
