package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Add adds or replaces a message in the cache
func (s *Service) Add(ctx context.Context, msg *Message) error {
	messageJSON, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	entry := &CacheEntry{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		ReplyID:   msg.ReplyToID,
		Date:      msg.Date,
		Message:   datatypes.JSON(messageJSON),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}, {Name: "message_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reply_id", "date", "message", "updated_at"}),
		}).
		Create(entry).Error
}
