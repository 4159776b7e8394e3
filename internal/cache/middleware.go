package cache

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Middleware stores every new and edited message before the update reaches the
// handlers. Cache failures are logged and never block the update.
func Middleware(service *Service, logger *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			switch {
			case update.Message != nil:
				msg := FromTelegram(update.Message)
				if err := service.Add(ctx, msg); err != nil {
					logger.Error("failed to cache message",
						"chat_id", msg.Chat.ID,
						"message_id", msg.MessageID,
						"error", err,
					)
				}
			case update.EditedMessage != nil:
				msg := FromTelegram(update.EditedMessage)
				if _, err := service.Edit(ctx, msg); err != nil {
					logger.Error("failed to update cached message",
						"chat_id", msg.Chat.ID,
						"message_id", msg.MessageID,
						"error", err,
					)
				}
			}

			next(ctx, b, update)
		}
	}
}
