package reactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidPattern is returned when the content or reaction is empty.
var ErrInvalidPattern = errors.New("reactions: empty message content or reaction")

// Store persists reaction patterns
type Store struct {
	db *gorm.DB
}

// NewStore creates a new pattern store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Record stores an observed reaction. A repeated (content, reaction, chat)
// observation increments the existing count in the same statement.
func (s *Store) Record(ctx context.Context, content, reaction string, chatID int64) error {
	content = Normalize(content)
	if content == "" || reaction == "" {
		return ErrInvalidPattern
	}

	now := time.Now()
	pattern := Pattern{
		MessageContent: content,
		Reaction:       reaction,
		Count:          1,
		ChatID:         chatID,
		CreatedAt:      now,
		LastSeen:       now,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "content_hash"}, {Name: "reaction"}, {Name: "chat_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":     gorm.Expr("reaction_patterns.count + 1"),
				"last_seen": now,
			}),
		}).
		Create(&pattern).Error
	if err != nil {
		return fmt.Errorf("failed to record reaction pattern: %w", err)
	}
	return nil
}

// Candidates returns the patterns of a chat seen at least minCount times
func (s *Store) Candidates(ctx context.Context, chatID int64, minCount int) ([]Pattern, error) {
	var patterns []Pattern
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND count >= ?", chatID, minCount).
		Order("id ASC").
		Find(&patterns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reaction patterns: %w", err)
	}
	return patterns, nil
}

// Find returns the stored pattern for an exact (content, reaction, chat) key
func (s *Store) Find(ctx context.Context, content, reaction string, chatID int64) (*Pattern, error) {
	content = Normalize(content)
	var pattern Pattern
	err := s.db.WithContext(ctx).
		Where("content_hash = md5(?) AND message_content = ? AND reaction = ? AND chat_id = ?", content, content, reaction, chatID).
		First(&pattern).Error
	if err != nil {
		return nil, err
	}
	return &pattern, nil
}

// Stats summarizes what has been learned in a chat
type Stats struct {
	Patterns     int64
	Observations int64
	Top          []Pattern
}

// Stats returns pattern totals for a chat and its topN most seen patterns
func (s *Store) Stats(ctx context.Context, chatID int64, topN int) (*Stats, error) {
	var totals struct {
		Patterns     int64
		Observations int64
	}

	err := s.db.WithContext(ctx).
		Model(&Pattern{}).
		Select("COUNT(*) AS patterns, COALESCE(SUM(count), 0) AS observations").
		Where("chat_id = ?", chatID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reaction patterns: %w", err)
	}

	stats := Stats{Patterns: totals.Patterns, Observations: totals.Observations}

	err = s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("count DESC, last_seen DESC").
		Limit(topN).
		Find(&stats.Top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top reaction patterns: %w", err)
	}

	return &stats, nil
}
