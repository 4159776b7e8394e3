package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes cache entries past their retention period
type Cleaner struct {
	service      *Service
	keepDuration time.Duration
	logger       *slog.Logger
}

// NewCleaner creates a new cache cleaner
func NewCleaner(service *Service, keepDuration time.Duration, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		service:      service,
		keepDuration: keepDuration,
		logger:       logger,
	}
}

// Run performs a single cleanup. It is meant to be scheduled periodically.
func (c *Cleaner) Run(ctx context.Context) error {
	deleted, err := c.service.Clean(ctx, c.keepDuration)
	if err != nil {
		return err
	}

	c.logger.Info("cache cleanup completed",
		"deleted", deleted,
		"keep_duration", c.keepDuration,
	)

	return nil
}
