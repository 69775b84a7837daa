package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

// AccountSource is the read-only account lookup the verifier depends on.
// The accounts repository satisfies it.
type AccountSource interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}

// Verifier answers "is this (token, email) pair authorized, and as whom".
// It decodes the token, fetches the account and cross-checks the request
// email, the token's email claim and the account email on file.
type Verifier struct {
	codec    *Codec
	accounts AccountSource
}

// NewVerifier constructs a Verifier over the given codec and account source.
func NewVerifier(codec *Codec, accounts AccountSource) *Verifier {
	return &Verifier{codec: codec, accounts: accounts}
}

// Verify resolves the pair to the account's public view or fails with
// ErrorUnauthorized (missing/invalid token) or ErrorBadInput (unknown
// account, identity mismatch). The returned view carries no password.
func (v *Verifier) Verify(ctx context.Context, token, email string) (*models.AccountView, error) {
	account, err := v.verify(ctx, token, email)
	if err != nil {
		return nil, err
	}
	return account.View(), nil
}

// VerifyAdmin is Verify restricted to admin accounts. The account type
// comparison is case-insensitive.
func (v *Verifier) VerifyAdmin(ctx context.Context, token, email string) (*models.AccountView, error) {
	account, err := v.verify(ctx, token, email)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(account.AccountType, "admin") {
		return nil, fmt.Errorf("%w: account is not an admin user", common.ErrorUnauthorized)
	}
	return account.View(), nil
}

func (v *Verifier) verify(ctx context.Context, token, email string) (*models.Account, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: authentication token required", common.ErrorUnauthorized)
	}

	claims, err := v.codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication token not valid", common.ErrorUnauthorized)
	}

	account, err := v.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: account could not be found", common.ErrorBadInput)
	}

	if email != account.Email || claims.Email != account.Email || claims.Email != email {
		return nil, fmt.Errorf("%w: account credentials do not match what is on the server", common.ErrorBadInput)
	}

	return account, nil
}
