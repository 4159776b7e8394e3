package quotes

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/cache"
)

// Builder turns a replied-to message into the excerpts of a quote by
// following its reply chain through the message cache
type Builder struct {
	cache    *cache.Service
	maxDepth int
}

// NewBuilder creates a new quote builder
func NewBuilder(cache *cache.Service, maxDepth int) *Builder {
	return &Builder{cache: cache, maxDepth: maxDepth}
}

// Build returns the excerpts ending at target, oldest first. A target that is
// not cached is quoted on its own.
func (b *Builder) Build(ctx context.Context, target *models.Message) ([]Excerpt, error) {
	entries, err := b.cache.GetChain(ctx, target.Chat.ID, int64(target.ID), b.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to load reply chain: %w", err)
	}

	if len(entries) == 0 {
		return []Excerpt{ExcerptFromMessage(target)}, nil
	}

	excerpts := make([]Excerpt, 0, len(entries))
	for _, entry := range entries {
		msg, err := entry.Decode()
		if err != nil {
			return nil, err
		}
		excerpts = append(excerpts, ExcerptFromCache(msg))
	}
	return excerpts, nil
}
