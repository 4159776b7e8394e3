package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Edit replaces the payload of a cached message. Edits of messages that are
// not cached are ignored and the returned boolean is false.
func (s *Service) Edit(ctx context.Context, msg *Message) (bool, error) {
	messageJSON, err := json.Marshal(msg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal message: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&CacheEntry{}).
		Where("chat_id = ? AND message_id = ?", msg.Chat.ID, msg.MessageID).
		Update("message", datatypes.JSON(messageJSON))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
