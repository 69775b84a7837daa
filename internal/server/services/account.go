// Package services contains server-side business logic. This file implements
// AccountService: sign-in/sign-out with the session ledger, session
// verification, and account management for admin users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/logging"
	"github.com/dmitrijs2005/collabpack/internal/server/auth"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/collabpack/internal/server/sessionlog"
)

// AccountService provides authentication and account management:
// - SignIn: verify credentials, mint a JWT, record the session
// - SignOut: drop the ledger entry
// - VerifySession/Refresh: resolve or renew a (token, email) session
// - Create/Delete/List/AdminUpdate: admin-only account administration
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	verifier    *auth.Verifier
	sessions    *sessionlog.Ledger
	logger      logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec,
	verifier *auth.Verifier, sessions *sessionlog.Ledger, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		codec:       codec,
		verifier:    verifier,
		sessions:    sessions,
		logger:      logger,
	}
}

// SignIn verifies the credentials and returns the account view together with
// a freshly minted token. The session ledger write is best effort: a ledger
// failure is logged but never blocks a successful sign-in.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.AccountView, string, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", fmt.Errorf("%w: wrong email or password", common.ErrorUnauthorized)
		}
		return nil, "", common.ErrorInternal
	}
	if !auth.ValidPassword(account.Password, password) {
		return nil, "", fmt.Errorf("%w: wrong email or password", common.ErrorUnauthorized)
	}

	view := account.View()
	token, err := s.codec.Issue(view)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	if err := s.sessions.RecordLogin(ctx, account.Email, token); err != nil {
		s.logger.Error(ctx, "session ledger write failed", "email", account.Email, "error", err)
	}

	return view, token, nil
}

// SignOut verifies the session and removes the account's ledger entry.
// Signing out an account with no recorded session is not an error.
func (s *AccountService) SignOut(ctx context.Context, token, email string) error {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return err
	}
	if err := s.sessions.RecordLogout(ctx, email, token); err != nil {
		s.logger.Error(ctx, "session ledger logout failed", "email", email, "error", err)
	}
	return nil
}

// VerifySession resolves the (token, email) pair to the account's public
// view. A missing ledger entry is reported in the logs but does not fail
// the verification; the token itself is the authority.
func (s *AccountService) VerifySession(ctx context.Context, token, email string) (*models.AccountView, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Find(ctx, email, token); err != nil {
		s.logger.Warn(ctx, "verified session has no ledger entry", "email", email, "error", err)
	}
	return view, nil
}

// Refresh re-verifies the current session and mints a replacement token so
// a client can renew before the hard expiry. The ledger entry is left
// alone: repeat logins keep the earliest recorded session.
func (s *AccountService) Refresh(ctx context.Context, token, email string) (*models.AccountView, string, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, "", err
	}

	fresh, err := s.codec.Issue(view)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	return view, fresh, nil
}

// GetByID resolves an account ID to its public view. Any verified account
// may look up any other account.
func (s *AccountService) GetByID(ctx context.Context, token, email, accountID string) (*models.AccountView, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return account.View(), nil
}

// AdminUpdate rewrites the target account's profile fields and account
// type. Admin only; passwords change through UpdatePassword and are
// carried over untouched here.
func (s *AccountService) AdminUpdate(ctx context.Context, token, adminEmail, targetEmail,
	username, phone, userGroup, accountType string) (*models.AccountView, error) {
	if _, err := s.verifier.VerifyAdmin(ctx, token, adminEmail); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: account could not be found", common.ErrorBadInput)
		}
		return nil, fmt.Errorf("error fetching account: %w", err)
	}

	account.Username = username
	account.Phone = phone
	account.UserGroup = userGroup
	account.AccountType = accountType

	updated, err := repo.Update(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return updated.View(), nil
}

// Create registers a new account. Only admin accounts may call it.
func (s *AccountService) Create(ctx context.Context, token, adminEmail string, c *models.AccountCreation) (*models.AccountView, error) {
	if _, err := s.verifier.VerifyAdmin(ctx, token, adminEmail); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(c.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	c.Password = hash

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account.View(), nil
}

// Delete removes an account and its recorded session. Admin only.
func (s *AccountService) Delete(ctx context.Context, token, adminEmail, targetEmail string) error {
	if _, err := s.verifier.VerifyAdmin(ctx, token, adminEmail); err != nil {
		return err
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.Delete(ctx, targetEmail); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}

	if err := s.sessions.RecordLogout(ctx, targetEmail, ""); err != nil {
		s.logger.Error(ctx, "session ledger logout failed", "email", targetEmail, "error", err)
	}
	return nil
}

// List returns views of all accounts. Admin only.
func (s *AccountService) List(ctx context.Context, token, adminEmail string) ([]*models.AccountView, error) {
	if _, err := s.verifier.VerifyAdmin(ctx, token, adminEmail); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)
	accounts, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}

	views := make([]*models.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, a.View())
	}
	return views, nil
}

// UpdateDetail changes the account's profile fields. Accounts can only change
// their own details.
func (s *AccountService) UpdateDetail(ctx context.Context, token, email, username, phone, userGroup string) (*models.AccountView, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.UpdateDetail(ctx, email, username, phone, userGroup)
	if err != nil {
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return account.View(), nil
}

// UpdatePassword changes the account password after re-checking the old one.
func (s *AccountService) UpdatePassword(ctx context.Context, token, email, oldPassword, newPassword string) error {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return err
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: account could not be found", common.ErrorBadInput)
	}
	if !auth.ValidPassword(account.Password, oldPassword) {
		return fmt.Errorf("%w: wrong password", common.ErrorUnauthorized)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	if err := repo.UpdatePassword(ctx, email, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}
