package sqlite

import (
	"context"
	"log/slog"

	"github.com/example/fates/internal/logging"
	"github.com/example/fates/internal/persistence"
)

func repositoryLogger(ctx context.Context, base *slog.Logger, repository, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"repository", repository, "operation", operation}
	return logger.With(append(pairs, attrs...)...)
}

// logResult records the outcome of a statement. Expected caller mistakes log
// at Warn, storage failures at Error, and successful mutations at Debug.
func logResult(ctx context.Context, logger *slog.Logger, err error, attrs ...any) {
	if err == nil {
		logger.DebugContext(ctx, "statement completed", attrs...)
		return
	}

	kind := persistence.ErrorKind(err)
	attrs = append(attrs, "error_kind", kind, "error", err)
	switch kind {
	case "constraint_violation", "malformed_input", "closed", "canceled":
		logger.WarnContext(ctx, "statement rejected", attrs...)
	default:
		logger.ErrorContext(ctx, "statement failed", attrs...)
	}
}
