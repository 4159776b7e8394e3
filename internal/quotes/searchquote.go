package quotes

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/telegram"
)

// SearchQuoteHandler handles /searchquote [term] [| user]
type SearchQuoteHandler struct {
	client    telegram.Client
	searcher  *Searcher
	publisher *Publisher
}

// NewSearchQuoteHandler creates a new searchquote handler
func NewSearchQuoteHandler(client telegram.Client, searcher *Searcher, publisher *Publisher) *SearchQuoteHandler {
	return &SearchQuoteHandler{client: client, searcher: searcher, publisher: publisher}
}

func (h *SearchQuoteHandler) Command() string { return "searchquote" }

func (h *SearchQuoteHandler) Description() string {
	return "Zitat suchen: /searchquote Begriff | Person"
}

func (h *SearchQuoteHandler) Handle(ctx context.Context, msg *models.Message) error {
	term, user := ParseSearch(bot.Args(msg.Text))

	found, err := h.searcher.Search(ctx, term, user, 1)
	if errors.Is(err, ErrEmptyCorpus) {
		return reply(ctx, h.client, msg, msgEmptyCorpus)
	}
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return reply(ctx, h.client, msg, msgNoMatch)
	}

	return h.publisher.Show(ctx, msg, &found[0])
}

// ParseSearch splits "term | user". Either side may be empty.
func ParseSearch(args string) (term, user string) {
	term, user, _ = strings.Cut(args, "|")
	return strings.TrimSpace(term), strings.TrimSpace(user)
}
