package reactions

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot/middleware"
	"github.com/graffic/campusbot/internal/cache"
	"github.com/graffic/campusbot/internal/observability"
)

// Recorder persists observed reactions
type Recorder interface {
	Record(ctx context.Context, content, reaction string, chatID int64) error
}

// MessageLookup resolves the message a reaction was given to
type MessageLookup interface {
	GetMessage(ctx context.Context, chatID, messageID int64) (*cache.Message, bool, error)
}

// Learner records reactions people add to messages. Telegram reaction
// updates carry no message text, so the text comes from the message cache.
type Learner struct {
	recorder  Recorder
	messages  MessageLookup
	minLength int
	logger    *slog.Logger
}

// NewLearner creates a learner that ignores messages shorter than minLength runes
func NewLearner(recorder Recorder, messages MessageLookup, minLength int, logger *slog.Logger) *Learner {
	return &Learner{
		recorder:  recorder,
		messages:  messages,
		minLength: minLength,
		logger:    logger,
	}
}

// HandleReaction records every reaction newly added by a human
func (l *Learner) HandleReaction(ctx context.Context, update *models.MessageReactionUpdated) error {
	if update.User != nil && update.User.IsBot {
		return nil
	}

	tokens := added(update.OldReaction, update.NewReaction)
	if len(tokens) == 0 {
		return nil
	}

	logger := middleware.Logger(ctx, l.logger)
	chatID, messageID := update.Chat.ID, int64(update.MessageID)

	msg, ok, err := l.messages.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return err
	}
	if !ok {
		logger.Debug("reacted message not cached", "message_id", messageID)
		return nil
	}

	content := msg.Body()
	if utf8.RuneCountInString(content) < l.minLength {
		return nil
	}

	for _, tok := range tokens {
		if err := l.recorder.Record(ctx, content, tok, chatID); err != nil {
			return err
		}
		observability.ReactionsLearned.Inc()
		logger.Debug("learned reaction", "reaction", tok, "message_id", messageID)
	}
	return nil
}
