// Package common defines shared constants and sentinel errors used across
// client and server layers of Collabpack. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorBadInput     = errors.New("bad input")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Upload pipeline errors.
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrUploadFailed    = errors.New("upload failed")

	// Session ledger file errors other than "does not exist".
	ErrLedgerIO = errors.New("ledger io failure")
)
