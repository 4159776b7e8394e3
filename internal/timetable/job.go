package timetable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/graffic/campusbot/internal/telegram"
)

// Holidays is a set of local dates without lectures
type Holidays map[string]bool

// ParseHolidays parses YYYY-MM-DD dates
func ParseHolidays(dates []string) (Holidays, error) {
	h := make(Holidays, len(dates))
	for _, d := range dates {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", d, err)
		}
		h[t.Format(time.DateOnly)] = true
	}
	return h, nil
}

// Contains reports whether day is a holiday
func (h Holidays) Contains(day time.Time) bool {
	return h[day.Format(time.DateOnly)]
}

// Poster sends today's timetable to a chat on working days
type Poster struct {
	service  *Service
	client   telegram.Client
	chatID   int64
	holidays Holidays
	logger   *slog.Logger
}

// NewPoster creates a daily timetable poster
func NewPoster(service *Service, client telegram.Client, chatID int64, holidays Holidays, logger *slog.Logger) *Poster {
	return &Poster{
		service:  service,
		client:   client,
		chatID:   chatID,
		holidays: holidays,
		logger:   logger,
	}
}

// Run posts today's timetable unless today is a weekend day or a holiday
func (p *Poster) Run(ctx context.Context) error {
	today := p.service.Now()

	if wd := today.Weekday(); wd == time.Saturday || wd == time.Sunday {
		p.logger.Info("weekend, skipping timetable post")
		return nil
	}
	if p.holidays.Contains(today) {
		p.logger.Info("holiday, skipping timetable post", "date", today.Format(time.DateOnly))
		return nil
	}

	plan, err := p.service.Plan(ctx, 0)
	if err != nil {
		return err
	}

	for _, chunk := range telegram.SplitText(plan, telegram.MaxMessageLength) {
		if _, err := p.client.SendText(ctx, p.chatID, chunk); err != nil {
			return err
		}
	}

	p.logger.Info("sent daily timetable", "chat_id", p.chatID, "date", today.Format(time.DateOnly))
	return nil
}
