package mensa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	// ErrInvalidDate is returned for a date argument that cannot be parsed.
	ErrInvalidDate = errors.New("mensa: invalid date")
	// ErrOutOfRange is returned for dates beyond the published menus.
	ErrOutOfRange = errors.New("mensa: date out of range")
)

// MealSource loads the raw meals of a day
type MealSource interface {
	Meals(ctx context.Context, day time.Time) ([]RawMeal, error)
}

// Service resolves requested days and renders their menus
type Service struct {
	source MealSource
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a service that interprets dates in loc
func NewService(source MealSource, loc *time.Location) *Service {
	return &Service{source: source, loc: loc, now: time.Now}
}

// Now returns the current time in the service's location
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Resolve turns a user supplied date into the day whose menu is shown. An
// empty argument means today. Past dates are moved to today and closed days
// to the next open day.
func (s *Service) Resolve(arg string) (time.Time, error) {
	now := s.Now()
	day := midnight(now)

	if arg = strings.TrimSpace(arg); arg != "" {
		parsed, err := time.ParseInLocation("02.01.2006", arg, s.loc)
		if err != nil {
			parsed, err = dateparse.ParseIn(arg, s.loc)
			if err != nil {
				return time.Time{}, ErrInvalidDate
			}
		}
		if parsed = midnight(parsed.In(s.loc)); parsed.After(day) {
			day = parsed
		}
	}

	if !IsOpen(day, now) {
		day = NextOpenDay(day)
	}
	if !IsOpen(day, now) {
		return time.Time{}, ErrOutOfRange
	}
	return day, nil
}

// Meals returns the postable meals of a day
func (s *Service) Meals(ctx context.Context, day time.Time) ([]Meal, error) {
	raw, err := s.source.Meals(ctx, day)
	if err != nil {
		return nil, err
	}
	return Extract(raw), nil
}
