package quotes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot/middleware"
	"github.com/graffic/campusbot/internal/identity"
	"github.com/graffic/campusbot/internal/observability"
	"github.com/graffic/campusbot/internal/telegram"
)

// User-facing texts
const (
	titleNewQuote    = "💬 Neues Zitat"
	msgSaved         = "✅ Zitat #%d gespeichert."
	msgReplyRequired = "↩️ Antworte auf eine Nachricht, um sie zu zitieren."
	msgNoPending     = "❌ Du hast keine gespeicherten Nachrichten."
	msgEmptyCorpus   = "Es gibt noch keine Zitate."
	msgNoMatch       = "Kein passendes Zitat gefunden."
	msgAnonymous     = "❌ Anonyme Nachrichten können keine Zitate einreichen."
	msgCollected     = "📥 Nachricht gespeichert (%d). Mit /postquote innerhalb von %d Minuten veröffentlichen."
	msgCleared       = "🗑️ Gespeicherte Nachrichten verworfen."
	msgCustomUsage   = "Verwendung: /customquote Autor | Zitat [| Kommentar]"
	msgQuoteFailed   = "❌ Das Zitat konnte nicht gespeichert werden."
	titleQuoteNumber = "📜 Zitat #%d"
)

// Publisher stores quotes and posts them to the quote chat
type Publisher struct {
	client      telegram.Client
	store       *Store
	renderer    *Renderer
	quoteChatID int64
	logger      *slog.Logger
}

// NewPublisher creates a publisher. A zero quoteChatID posts into the chat the
// command came from.
func NewPublisher(client telegram.Client, store *Store, renderer *Renderer, quoteChatID int64, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:      client,
		store:       store,
		renderer:    renderer,
		quoteChatID: quoteChatID,
		logger:      logger,
	}
}

// Publish stores the quote requested by msg and posts it. origin labels the
// command for metrics.
func (p *Publisher) Publish(ctx context.Context, msg *models.Message, origin string, comment string, excerpts []Excerpt) (*Quote, error) {
	quote, err := p.store.Create(ctx, NewQuote{
		Reporter: identity.FromTelegramUser(msg.From),
		ChatID:   msg.Chat.ID,
		Comment:  comment,
		Excerpts: excerpts,
	})
	if err != nil {
		_, _ = p.client.Reply(ctx, msg.Chat.ID, int64(msg.ID), msgQuoteFailed)
		return nil, fmt.Errorf("failed to store quote: %w", err)
	}
	observability.QuotesCreated.WithLabelValues(origin).Inc()

	middleware.Logger(ctx, p.logger).Info("quote stored",
		"quote_id", quote.ID,
		"messages", len(quote.Messages),
		"origin", origin,
	)

	text, err := p.renderer.Render(quote, titleNewQuote)
	if err != nil {
		return quote, err
	}

	target := p.quoteChatID
	if target == 0 {
		target = msg.Chat.ID
	}
	if _, err := p.client.SendText(ctx, target, text); err != nil {
		return quote, fmt.Errorf("failed to post quote %d: %w", quote.ID, err)
	}

	if target != msg.Chat.ID {
		if _, err := p.client.Reply(ctx, msg.Chat.ID, int64(msg.ID), fmt.Sprintf(msgSaved, quote.ID)); err != nil {
			return quote, err
		}
	}

	return quote, nil
}

// Show posts a stored quote as a reply to msg.
func (p *Publisher) Show(ctx context.Context, msg *models.Message, quote *Quote) error {
	text, err := p.renderer.Render(quote, fmt.Sprintf(titleQuoteNumber, quote.ID))
	if err != nil {
		return err
	}
	_, err = p.client.Reply(ctx, msg.Chat.ID, int64(msg.ID), text)
	return err
}

// reply answers msg with a short text.
func reply(ctx context.Context, client telegram.Client, msg *models.Message, text string) error {
	_, err := client.Reply(ctx, msg.Chat.ID, int64(msg.ID), text)
	return err
}
