package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type fakeAccountSource struct {
	accounts map[string]*models.Account
	err      error
}

func (f *fakeAccountSource) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func newTestVerifier(t *testing.T, accounts ...*models.Account) (*Verifier, *Codec) {
	t.Helper()
	codec := testCodec(48 * time.Hour)
	src := &fakeAccountSource{accounts: map[string]*models.Account{}}
	for _, a := range accounts {
		src.accounts[a.Email] = a
	}
	return NewVerifier(codec, src), codec
}

func aliceAccount() *models.Account {
	return &models.Account{
		ID:          "u-1",
		Email:       "alice@x.com",
		Username:    "alice",
		Password:    "$2a$10$notarealhash",
		Phone:       "111",
		UserGroup:   "research",
		AccountType: "user",
	}
}

func TestVerifier_Success(t *testing.T) {
	t.Parallel()

	alice := aliceAccount()
	v, codec := newTestVerifier(t, alice)

	tok, err := codec.Issue(alice.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	view, err := v.Verify(context.Background(), tok, "alice@x.com")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if view.Email != "alice@x.com" || view.Username != "alice" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

// The success payload must be structurally incapable of carrying the
// password: serializing the returned view yields no password key.
func TestVerifier_SuccessPayloadHasNoPassword(t *testing.T) {
	t.Parallel()

	alice := aliceAccount()
	v, codec := newTestVerifier(t, alice)

	tok, err := codec.Issue(alice.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	view, err := v.Verify(context.Background(), tok, "alice@x.com")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if _, ok := m["password"]; ok {
		t.Fatal("view serialization must not contain a password field")
	}
}

func TestVerifier_TokenRequired(t *testing.T) {
	t.Parallel()

	v, _ := newTestVerifier(t, aliceAccount())

	_, err := v.Verify(context.Background(), "", "alice@x.com")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestVerifier_InvalidToken(t *testing.T) {
	t.Parallel()

	v, _ := newTestVerifier(t, aliceAccount())

	_, err := v.Verify(context.Background(), "not-a-token", "alice@x.com")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestVerifier_AccountNotFound(t *testing.T) {
	t.Parallel()

	alice := aliceAccount()
	v, codec := newTestVerifier(t) // empty source

	tok, err := codec.Issue(alice.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = v.Verify(context.Background(), tok, "alice@x.com")
	if !errors.Is(err, common.ErrorBadInput) {
		t.Fatalf("expected ErrorBadInput, got %v", err)
	}
}

// A valid token for alice presented with bob's email must fail the
// pairwise identity cross-check.
func TestVerifier_EmailMismatch(t *testing.T) {
	t.Parallel()

	alice := aliceAccount()
	bob := &models.Account{ID: "u-2", Email: "bob@x.com", Username: "bob", AccountType: "user"}
	v, codec := newTestVerifier(t, alice, bob)

	tok, err := codec.Issue(alice.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = v.Verify(context.Background(), tok, "bob@x.com")
	if !errors.Is(err, common.ErrorBadInput) {
		t.Fatalf("expected ErrorBadInput, got %v", err)
	}
}

func TestVerifier_Admin(t *testing.T) {
	t.Parallel()

	admin := aliceAccount()
	admin.AccountType = "Admin" // case-insensitive match
	v, codec := newTestVerifier(t, admin)

	tok, err := codec.Issue(admin.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	view, err := v.VerifyAdmin(context.Background(), tok, "alice@x.com")
	if err != nil {
		t.Fatalf("VerifyAdmin error: %v", err)
	}
	if view.AccountType != "Admin" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestVerifier_NotAdmin(t *testing.T) {
	t.Parallel()

	alice := aliceAccount()
	v, codec := newTestVerifier(t, alice)

	tok, err := codec.Issue(alice.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = v.VerifyAdmin(context.Background(), tok, "alice@x.com")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}
