// Package logging provides the notice sink the ElGamal core reports through.
//
// The core packages never print to a terminal. Progress, fallbacks and
// failures are emitted as severity-tagged notices on a Logger; the caller
// decides whether and how to display them.
//
// # Logger Interface
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Info(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    Error(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// # Implementations
//
//	logger := logging.New(nil)        // slog.Default()
//	logger := logging.New(slog.New(h)) // custom handler
//	logger := logging.Discard()       // drop everything
//	rec := logging.NewRecorder()      // keep notices in memory, for tests
//
// # Redaction
//
// The private exponent x and session keys must never reach a log. Use
// Redacted in their place:
//
//	logger.Warn(ctx, "private exponent regenerated", logging.Redacted("x"))
//	// Logs: x="[redacted]"
package logging
