package reactions

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/similarity"
	"github.com/graffic/campusbot/internal/telegram"
)

const statsTopN = 5

// StatsHandler handles /reactionstats
type StatsHandler struct {
	store  *Store
	client telegram.Client
}

// NewStatsHandler creates a new reactionstats handler
func NewStatsHandler(store *Store, client telegram.Client) *StatsHandler {
	return &StatsHandler{store: store, client: client}
}

func (h *StatsHandler) Command() string { return "reactionstats" }

func (h *StatsHandler) Description() string {
	return "Gelernte Reaktionen in diesem Chat anzeigen"
}

func (h *StatsHandler) Handle(ctx context.Context, msg *models.Message) error {
	stats, err := h.store.Stats(ctx, msg.Chat.ID, statsTopN)
	if err != nil {
		return err
	}

	_, err = h.client.Reply(ctx, msg.Chat.ID, int64(msg.ID), FormatStats(stats))
	return err
}

// FormatStats renders learned pattern statistics
func FormatStats(stats *Stats) string {
	if stats.Patterns == 0 {
		return "📊 Noch keine Reaktionen gelernt."
	}

	var b strings.Builder
	b.WriteString("📊 Reaktions-Statistik\n")
	fmt.Fprintf(&b, "Muster: %d\nBeobachtungen: %d\n", stats.Patterns, stats.Observations)

	if len(stats.Top) > 0 {
		b.WriteString("\nHäufigste:\n")
		for i, p := range stats.Top {
			content := similarity.Clip(p.MessageContent, 40)
			if content != p.MessageContent {
				content += "…"
			}
			fmt.Fprintf(&b, "%d. %s ×%d: %q\n", i+1, displayToken(p.Reaction), p.Count, content)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func displayToken(token string) string {
	if strings.HasPrefix(token, customPrefix) {
		return "⭐"
	}
	return token
}
