// Package sessionlog maintains the durable record of currently signed-in
// accounts, backed by a single shared JSON file. Every mutation is a whole
// file read-modify-write, so all access is serialized through the Ledger
// mutex; callers must never touch the file directly.
package sessionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/logging"
)

// Entry is one signed-in session: who, with which token, and since when.
// The timestamp serializes as RFC 3339.
type Entry struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}

// Ledger owns the session file. The zero value is not usable; construct
// with New.
type Ledger struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger

	// now is a seam for tests exercising expiry-based pruning.
	now func() time.Time
}

// New returns a Ledger over the file at path. The file does not need to
// exist yet; it is created on the first recorded login.
func New(path string, logger logging.Logger) *Ledger {
	return &Ledger{
		path:   path,
		logger: logger.With("module", "session_ledger"),
		now:    time.Now,
	}
}

// RecordLogin appends a session entry for email unless one already exists.
// A repeat login leaves the stored entry untouched, including its token:
// the earlier entry wins. The missing-file case is treated as an empty
// ledger.
func (l *Ledger) RecordLogin(ctx context.Context, email, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Email == email {
			l.logger.Debug(ctx, "login entry already exists", "email", email)
			return nil
		}
	}

	entries = append(entries, Entry{Email: email, Token: token, Timestamp: l.now()})
	return l.write(entries)
}

// RecordLogout removes every entry whose email matches. The token argument
// is accepted for symmetry with the stored entry shape but is not matched;
// callers are expected to have authenticated via the account verifier
// before calling. Logging out with no ledger file is a no-op.
func (l *Ledger) RecordLogout(ctx context.Context, email, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return err
	}
	if entries == nil {
		return nil
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.Email != email {
			kept = append(kept, e)
		}
	}
	return l.write(kept)
}

// Find returns the first entry whose email matches, or ErrorNotFound when
// no such session exists (including when the ledger file is absent).
func (l *Ledger) Find(ctx context.Context, email, _ string) (*Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Email == email {
			return &e, nil
		}
	}
	return nil, common.ErrorNotFound
}

// PruneExpired drops entries whose timestamp plus maxAge has elapsed and
// reports how many were removed. The ledger never expires entries on its
// own, so long-lived deployments run this periodically.
func (l *Ledger) PruneExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	cutoff := l.now().Add(-maxAge)
	kept := entries[:0]
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}

	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := l.write(kept); err != nil {
		return 0, err
	}

	l.logger.Info(ctx, "pruned expired sessions", "removed", removed)
	return removed, nil
}

// read loads and parses the whole ledger. A missing file yields a nil
// slice. File-system failures map to ErrLedgerIO; malformed content is a
// hard parse failure and propagates as-is.
func (l *Ledger) read() ([]Entry, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", common.ErrLedgerIO, err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse session ledger: %w", err)
	}
	return entries, nil
}

// write rewrites the whole ledger file.
func (l *Ledger) write(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(l.path, raw, 0o660); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLedgerIO, err)
	}
	return nil
}
