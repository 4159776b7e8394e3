// Package telegram wraps the outgoing half of the Telegram Bot API that the
// handlers use, so handlers can be tested against a mock.
package telegram

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MaxMessageLength is the longest text Telegram accepts in one message.
const MaxMessageLength = 4096

// Client defines the Telegram operations used by the handlers
type Client interface {
	// SendText sends a plain text message to a chat
	SendText(ctx context.Context, chatID int64, text string) (*models.Message, error)

	// Reply sends a plain text reply to a specific message
	Reply(ctx context.Context, chatID int64, messageID int64, text string) (*models.Message, error)

	// SetReaction replaces the bot's reaction on a message
	SetReaction(ctx context.Context, chatID int64, messageID int64, reaction models.ReactionType) error
}

// IsForbidden reports whether Telegram refused the action for lack of rights.
// Retrying such a request in the same chat is pointless.
func IsForbidden(err error) bool {
	return errors.Is(err, bot.ErrorForbidden) || errors.Is(err, bot.ErrorUnauthorized)
}

// IsRateLimited reports whether Telegram asked the bot to slow down.
func IsRateLimited(err error) bool {
	var tooMany *bot.TooManyRequestsError
	return errors.As(err, &tooMany) || errors.Is(err, bot.ErrorTooManyRequests)
}
