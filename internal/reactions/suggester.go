package reactions

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot/middleware"
	"github.com/graffic/campusbot/internal/observability"
	"github.com/graffic/campusbot/internal/telegram"
)

// SuggesterConfig bounds how many reactions are tried and attached per message
type SuggesterConfig struct {
	MaxSuggestions int
	MaxAttached    int
	MinLength      int
}

// Suggester reacts to new messages with learned reactions
type Suggester struct {
	matcher *Matcher
	client  telegram.Client
	config  SuggesterConfig
	logger  *slog.Logger
}

// NewSuggester creates a new suggester
func NewSuggester(matcher *Matcher, client telegram.Client, config SuggesterConfig, logger *slog.Logger) *Suggester {
	return &Suggester{
		matcher: matcher,
		client:  client,
		config:  config,
		logger:  logger,
	}
}

// HandleMessage tries the best MaxSuggestions reactions in order until
// MaxAttached of them were set. Failures of a single reaction are logged and
// the next one is tried; a permission error ends the attempt for the message.
func (s *Suggester) HandleMessage(ctx context.Context, msg *models.Message) error {
	if msg.From == nil || msg.From.IsBot {
		return nil
	}
	text := msg.Text
	if strings.HasPrefix(text, "/") || utf8.RuneCountInString(text) < s.config.MinLength {
		return nil
	}

	suggestions, err := s.matcher.Find(ctx, text, msg.Chat.ID)
	if err != nil {
		return err
	}
	if len(suggestions) > s.config.MaxSuggestions {
		suggestions = suggestions[:s.config.MaxSuggestions]
	}

	logger := middleware.Logger(ctx, s.logger)
	attached := 0
	for _, token := range suggestions {
		err := s.client.SetReaction(ctx, msg.Chat.ID, int64(msg.ID), ReactionType(token))
		if err == nil {
			observability.ReactionSuggestions.WithLabelValues("attached").Inc()
			logger.Debug("suggested reaction", "reaction", token, "message_id", msg.ID)
			attached++
			if attached >= s.config.MaxAttached {
				break
			}
			continue
		}

		if telegram.IsForbidden(err) {
			observability.ReactionSuggestions.WithLabelValues("forbidden").Inc()
			logger.Warn("missing permission to react", "error", err)
			break
		}

		observability.ReactionSuggestions.WithLabelValues("failed").Inc()
		logger.Error("failed to add reaction", "reaction", token, "error", err)
	}

	return nil
}
