package quotes

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/telegram"
)

// AddQuoteHandler handles /addquote [comment], sent as a reply
type AddQuoteHandler struct {
	client    telegram.Client
	builder   *Builder
	publisher *Publisher
}

// NewAddQuoteHandler creates a new addquote handler
func NewAddQuoteHandler(client telegram.Client, builder *Builder, publisher *Publisher) *AddQuoteHandler {
	return &AddQuoteHandler{
		client:    client,
		builder:   builder,
		publisher: publisher,
	}
}

func (h *AddQuoteHandler) Command() string { return "addquote" }

func (h *AddQuoteHandler) Description() string {
	return "Beantwortete Nachricht als Zitat speichern"
}

// Handle quotes the replied-to message together with the replies it answers
func (h *AddQuoteHandler) Handle(ctx context.Context, msg *models.Message) error {
	if msg.From == nil {
		return reply(ctx, h.client, msg, msgAnonymous)
	}
	if msg.ReplyToMessage == nil {
		return reply(ctx, h.client, msg, msgReplyRequired)
	}

	excerpts, err := h.builder.Build(ctx, msg.ReplyToMessage)
	if err != nil {
		return err
	}

	_, err = h.publisher.Publish(ctx, msg, h.Command(), bot.Args(msg.Text), excerpts)
	return err
}
