package quotes

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/telegram"
)

// CustomQuoteHandler handles /customquote Author | content [| comment] for
// people who are not in the chat
type CustomQuoteHandler struct {
	client    telegram.Client
	publisher *Publisher
}

// NewCustomQuoteHandler creates a new customquote handler
func NewCustomQuoteHandler(client telegram.Client, publisher *Publisher) *CustomQuoteHandler {
	return &CustomQuoteHandler{client: client, publisher: publisher}
}

func (h *CustomQuoteHandler) Command() string { return "customquote" }

func (h *CustomQuoteHandler) Description() string {
	return "Zitat einer Person außerhalb des Chats speichern"
}

func (h *CustomQuoteHandler) Handle(ctx context.Context, msg *models.Message) error {
	if msg.From == nil {
		return reply(ctx, h.client, msg, msgAnonymous)
	}

	author, content, comment, ok := ParseCustomQuote(bot.Args(msg.Text))
	if !ok {
		return reply(ctx, h.client, msg, msgCustomUsage)
	}

	excerpt := ExternalExcerpt(author, content, time.Unix(int64(msg.Date), 0))
	_, err := h.publisher.Publish(ctx, msg, h.Command(), comment, []Excerpt{excerpt})
	return err
}

// ParseCustomQuote splits "Author | content [| comment]". Author and content
// are required.
func ParseCustomQuote(args string) (author, content, comment string, ok bool) {
	parts := strings.SplitN(args, "|", 3)
	if len(parts) < 2 {
		return "", "", "", false
	}

	author = strings.TrimSpace(parts[0])
	content = strings.TrimSpace(parts[1])
	if len(parts) == 3 {
		comment = strings.TrimSpace(parts[2])
	}

	if author == "" || content == "" {
		return "", "", "", false
	}
	return author, content, comment, true
}
