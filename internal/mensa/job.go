package mensa

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graffic/campusbot/internal/telegram"
)

// Poster sends today's menu to a chat
type Poster struct {
	service *Service
	client  telegram.Client
	chatID  int64
	logger  *slog.Logger
}

// NewPoster creates a daily menu poster
func NewPoster(service *Service, client telegram.Client, chatID int64, logger *slog.Logger) *Poster {
	return &Poster{
		service: service,
		client:  client,
		chatID:  chatID,
		logger:  logger,
	}
}

// Run posts today's menu if the canteen is open
func (p *Poster) Run(ctx context.Context) error {
	now := p.service.Now()
	if !IsOpen(now, now) {
		p.logger.Debug("mensa closed today, skipping post")
		return nil
	}

	day := midnight(now)
	meals, err := p.service.Meals(ctx, day)
	if errors.Is(err, ErrNoMenu) {
		p.logger.Info("no mensa menu published", "date", day.Format("2006-01-02"))
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := p.client.SendText(ctx, p.chatID, Format(day, meals)); err != nil {
		return err
	}

	p.logger.Info("sent daily mensa message", "chat_id", p.chatID, "meals", len(meals))
	return nil
}
