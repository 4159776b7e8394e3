package bot

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot/middleware"
)

// MessageHandler processes ordinary (non-command) messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *models.Message) error
}

// ReactionHandler processes reaction changes on messages
type ReactionHandler interface {
	HandleReaction(ctx context.Context, update *models.MessageReactionUpdated) error
}

// Dispatcher routes updates that no command matched
type Dispatcher struct {
	messages  []MessageHandler
	reactions []ReactionHandler
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher without handlers
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// OnMessage adds a handler for new messages
func (d *Dispatcher) OnMessage(h MessageHandler) {
	d.messages = append(d.messages, h)
}

// OnReaction adds a handler for reaction updates
func (d *Dispatcher) OnReaction(h ReactionHandler) {
	d.reactions = append(d.reactions, h)
}

// Handle is the bot's default handler. Every handler runs even if an earlier
// one failed.
func (d *Dispatcher) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	logger := middleware.Logger(ctx, d.logger)

	switch {
	case update.Message != nil:
		for _, h := range d.messages {
			if err := h.HandleMessage(ctx, update.Message); err != nil {
				logger.Error("message handler failed", "error", err)
			}
		}
	case update.MessageReaction != nil:
		for _, h := range d.reactions {
			if err := h.HandleReaction(ctx, update.MessageReaction); err != nil {
				logger.Error("reaction handler failed", "error", err)
			}
		}
	}
}
