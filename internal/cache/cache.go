// Package cache keeps recent chat messages in the database so that reply
// chains and reacted-to messages can be resolved later. Telegram does not
// deliver message text with reaction updates and offers no API to fetch old
// messages.
package cache

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CacheEntry represents a cached Telegram message
type CacheEntry struct {
	ID        uint           `gorm:"primarykey"`
	ChatID    int64          `gorm:"index;not null"`
	MessageID int64          `gorm:"index;not null"`
	ReplyID   *int64         `gorm:"index"`
	Date      int64          `gorm:"index;not null"`
	Message   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for CacheEntry
func (CacheEntry) TableName() string {
	return "cache_entries"
}

// Decode unmarshals the stored message payload.
func (e *CacheEntry) Decode() (*Message, error) {
	return decodeMessage(e.Message)
}

// Service provides cache operations
type Service struct {
	db *gorm.DB
}

// NewService creates a new cache service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get retrieves a cached message by chat ID and message ID
func (s *Service) Get(ctx context.Context, chatID, messageID int64) (*CacheEntry, error) {
	var entry CacheEntry
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND message_id = ?", chatID, messageID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetMessage retrieves and decodes a cached message. The boolean is false
// when the message is not cached.
func (s *Service) GetMessage(ctx context.Context, chatID, messageID int64) (*Message, bool, error) {
	entry, err := s.Get(ctx, chatID, messageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	msg, err := entry.Decode()
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}

// GetChain follows the reply chain ending at messageID and returns at most
// maxDepth entries, oldest first. A depth of zero or less means no limit.
// Messages missing from the cache end the chain.
func (s *Service) GetChain(ctx context.Context, chatID, messageID int64, maxDepth int) ([]CacheEntry, error) {
	var entries []CacheEntry
	currentID := messageID
	seen := make(map[int64]bool)

	for maxDepth <= 0 || len(entries) < maxDepth {
		if seen[currentID] {
			break
		}
		seen[currentID] = true

		entry, err := s.Get(ctx, chatID, currentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}

		entries = append([]CacheEntry{*entry}, entries...)

		if entry.ReplyID == nil {
			break
		}
		currentID = *entry.ReplyID
	}

	return entries, nil
}

// Clean removes cache entries older than the specified duration and reports
// how many were deleted.
func (s *Service) Clean(ctx context.Context, keepDuration time.Duration) (int64, error) {
	cutoff := time.Now().Add(-keepDuration).Unix()
	result := s.db.WithContext(ctx).
		Where("date < ?", cutoff).
		Delete(&CacheEntry{})
	return result.RowsAffected, result.Error
}
