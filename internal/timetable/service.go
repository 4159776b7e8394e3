package timetable

import (
	"context"
	"time"
)

// Source provides timetable entries
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// Service renders the timetable for a window of days
type Service struct {
	source Source
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a service that groups entries by day in loc
func NewService(source Source, loc *time.Location) *Service {
	return &Service{source: source, loc: loc, now: time.Now}
}

// Now returns the current time in the service's location
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Plan returns the formatted timetable for days (see Window).
func (s *Service) Plan(ctx context.Context, days int) (string, error) {
	entries, err := s.source.Entries(ctx)
	if err != nil {
		return "", err
	}

	start, end := Window(days, s.Now())
	return Format(Filter(entries, start, end), days, s.loc), nil
}
