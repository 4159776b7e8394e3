package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// Telegram allows roughly 30 messages per second across all chats.
const sendRate = 25

// BotClient implements Client on top of go-telegram/bot
type BotClient struct {
	bot     *bot.Bot
	limiter *rate.Limiter
}

// NewBotClient wraps b. Outgoing calls are rate limited.
func NewBotClient(b *bot.Bot) *BotClient {
	return &BotClient{
		bot:     b,
		limiter: rate.NewLimiter(rate.Every(time.Second/sendRate), 5),
	}
}

// SendText sends a plain text message to a chat
func (c *BotClient) SendText(ctx context.Context, chatID int64, text string) (*models.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               text,
		LinkPreviewOptions: noPreview(),
	})
	if err != nil {
		return nil, fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return msg, nil
}

// Reply sends a plain text reply to a specific message
func (c *BotClient) Reply(ctx context.Context, chatID int64, messageID int64, text string) (*models.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	msg, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                int(messageID),
			AllowSendingWithoutReply: true,
		},
		LinkPreviewOptions: noPreview(),
	})
	if err != nil {
		return nil, fmt.Errorf("reply to %d/%d: %w", chatID, messageID, err)
	}
	return msg, nil
}

// SetReaction replaces the bot's reaction on a message
func (c *BotClient) SetReaction(ctx context.Context, chatID int64, messageID int64, reaction models.ReactionType) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.bot.SetMessageReaction(ctx, &bot.SetMessageReactionParams{
		ChatID:    chatID,
		MessageID: int(messageID),
		Reaction:  []models.ReactionType{reaction},
	})
	if err != nil {
		return fmt.Errorf("set reaction on %d/%d: %w", chatID, messageID, err)
	}
	return nil
}

func noPreview() *models.LinkPreviewOptions {
	disabled := true
	return &models.LinkPreviewOptions{IsDisabled: &disabled}
}
