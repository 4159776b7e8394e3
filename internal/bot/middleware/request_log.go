package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

type loggerKey struct{}

// WithLogger stores a logger in the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the request logger stored in ctx, or fallback
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return fallback
}

// RequestLog tags every update with a request id and logs how long handling took
func RequestLog(logger *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			reqLogger := logger.With(
				"request_id", uuid.NewString(),
				"update_id", update.ID,
				"chat_id", extractChatID(update),
			)

			start := time.Now()
			next(WithLogger(ctx, reqLogger), b, update)
			reqLogger.Debug("update handled", "duration", time.Since(start))
		}
	}
}
