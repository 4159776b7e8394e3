// Package middleware provides bot middleware for filtering and tracing updates.
package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ChatFilter drops updates from chats outside allowedChatIDs. An empty list
// allows every chat. With autoLeave the bot also leaves unauthorized chats.
// Updates without a chat are dropped.
func ChatFilter(allowedChatIDs []int64, autoLeave bool, logger *slog.Logger) bot.Middleware {
	allowed := make(map[int64]bool, len(allowedChatIDs))
	for _, id := range allowedChatIDs {
		allowed[id] = true
	}
	allowAll := len(allowedChatIDs) == 0

	logger.Info("chat filter configured", "allow_all", allowAll, "auto_leave", autoLeave, "chat_ids", allowedChatIDs)

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID := extractChatID(update)
			if chatID == 0 {
				return
			}

			if allowAll || allowed[chatID] {
				next(ctx, b, update)
				return
			}

			log := Logger(ctx, logger)
			log.Info("ignoring update from unauthorized chat", "chat_id", chatID)

			if autoLeave && b != nil {
				log.Info("leaving unauthorized chat", "chat_id", chatID)
				if _, err := b.LeaveChat(ctx, &bot.LeaveChatParams{ChatID: chatID}); err != nil {
					log.Error("failed to leave chat", "chat_id", chatID, "error", err)
				}
			}
		}
	}
}

// extractChatID returns the chat an update belongs to, or 0.
func extractChatID(update *models.Update) int64 {
	if update == nil {
		return 0
	}

	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.EditedMessage != nil:
		return update.EditedMessage.Chat.ID
	case update.MessageReaction != nil:
		return update.MessageReaction.Chat.ID
	case update.MessageReactionCount != nil:
		return update.MessageReactionCount.Chat.ID
	case update.ChannelPost != nil:
		return update.ChannelPost.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID
	case update.MyChatMember != nil:
		return update.MyChatMember.Chat.ID
	case update.ChatMember != nil:
		return update.ChatMember.Chat.ID
	default:
		return 0
	}
}
