// Package logging defines the structured-logging interface the server and
// client code log through. The concrete implementation wraps slog.
package logging

import "context"

// Logger logs structured messages at the usual four levels. The variadic
// args are alternating key/value pairs:
//
//	log.Info(ctx, "starting server", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given pairs.
	With(args ...any) Logger
}
