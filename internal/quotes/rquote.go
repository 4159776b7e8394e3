package quotes

import (
	"context"
	"errors"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/telegram"
)

// RQuoteHandler handles /rquote
type RQuoteHandler struct {
	client    telegram.Client
	searcher  *Searcher
	publisher *Publisher
}

// NewRQuoteHandler creates a new rquote handler
func NewRQuoteHandler(client telegram.Client, searcher *Searcher, publisher *Publisher) *RQuoteHandler {
	return &RQuoteHandler{client: client, searcher: searcher, publisher: publisher}
}

func (h *RQuoteHandler) Command() string { return "rquote" }

func (h *RQuoteHandler) Description() string {
	return "Zufälliges Zitat anzeigen"
}

func (h *RQuoteHandler) Handle(ctx context.Context, msg *models.Message) error {
	found, err := h.searcher.Random(ctx, 1)
	if errors.Is(err, ErrEmptyCorpus) {
		return reply(ctx, h.client, msg, msgEmptyCorpus)
	}
	if err != nil {
		return err
	}

	return h.publisher.Show(ctx, msg, &found[0])
}
