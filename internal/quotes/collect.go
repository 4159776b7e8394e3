package quotes

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/telegram"
)

// CollectHandler handles /collect, sent as a reply. The replied-to message is
// kept until the user posts or clears the collection.
type CollectHandler struct {
	client    telegram.Client
	collector *Collector
}

// NewCollectHandler creates a new collect handler
func NewCollectHandler(client telegram.Client, collector *Collector) *CollectHandler {
	return &CollectHandler{client: client, collector: collector}
}

func (h *CollectHandler) Command() string { return "collect" }

func (h *CollectHandler) Description() string {
	return "Nachricht für ein mehrteiliges Zitat vormerken"
}

func (h *CollectHandler) Handle(ctx context.Context, msg *models.Message) error {
	if msg.From == nil {
		return reply(ctx, h.client, msg, msgAnonymous)
	}
	if msg.ReplyToMessage == nil {
		return reply(ctx, h.client, msg, msgReplyRequired)
	}

	count := h.collector.Add(msg.From.ID, ExcerptFromMessage(msg.ReplyToMessage))
	minutes := int(h.collector.TTL().Minutes())
	return reply(ctx, h.client, msg, fmt.Sprintf(msgCollected, count, minutes))
}

// PostQuoteHandler handles /postquote [comment]
type PostQuoteHandler struct {
	client    telegram.Client
	collector *Collector
	publisher *Publisher
}

// NewPostQuoteHandler creates a new postquote handler
func NewPostQuoteHandler(client telegram.Client, collector *Collector, publisher *Publisher) *PostQuoteHandler {
	return &PostQuoteHandler{client: client, collector: collector, publisher: publisher}
}

func (h *PostQuoteHandler) Command() string { return "postquote" }

func (h *PostQuoteHandler) Description() string {
	return "Vorgemerkte Nachrichten als Zitat speichern"
}

func (h *PostQuoteHandler) Handle(ctx context.Context, msg *models.Message) error {
	if msg.From == nil {
		return reply(ctx, h.client, msg, msgAnonymous)
	}

	excerpts := h.collector.Take(msg.From.ID)
	if len(excerpts) == 0 {
		return reply(ctx, h.client, msg, msgNoPending)
	}

	_, err := h.publisher.Publish(ctx, msg, h.Command(), bot.Args(msg.Text), excerpts)
	return err
}

// ClearQuoteHandler handles /clearquote
type ClearQuoteHandler struct {
	client    telegram.Client
	collector *Collector
}

// NewClearQuoteHandler creates a new clearquote handler
func NewClearQuoteHandler(client telegram.Client, collector *Collector) *ClearQuoteHandler {
	return &ClearQuoteHandler{client: client, collector: collector}
}

func (h *ClearQuoteHandler) Command() string { return "clearquote" }

func (h *ClearQuoteHandler) Description() string {
	return "Vorgemerkte Nachrichten verwerfen"
}

func (h *ClearQuoteHandler) Handle(ctx context.Context, msg *models.Message) error {
	if msg.From == nil || !h.collector.Clear(msg.From.ID) {
		return reply(ctx, h.client, msg, msgNoPending)
	}
	return reply(ctx, h.client, msg, msgCleared)
}
