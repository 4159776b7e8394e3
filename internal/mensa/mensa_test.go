package mensa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/telegram/telegramtest"
	"github.com/graffic/campusbot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var berlin = mustLocation("Europe/Berlin")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, berlin)
}

func price(v float64) *float64 { return &v }

func rawMeal(category, name string, students *float64, notes ...string) RawMeal {
	r := RawMeal{Category: category, Name: name, Notes: notes}
	r.Prices.Students = students
	return r
}

type fakeSource struct {
	meals []RawMeal
	err   error
	days  []time.Time
}

func (f *fakeSource) Meals(_ context.Context, day time.Time) ([]RawMeal, error) {
	f.days = append(f.days, day)
	return f.meals, f.err
}

// Wednesday
var wednesday = time.Date(2026, 10, 14, 10, 30, 0, 0, berlin)

func newService(source MealSource, now time.Time) *Service {
	s := NewService(source, berlin)
	s.now = func() time.Time { return now }
	return s
}

func TestNextOpenDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, 1, 1), date(2024, 1, 2)},
		{date(2024, 1, 4), date(2024, 1, 5)},
		{date(2024, 1, 5), date(2024, 1, 8)},
		{date(2024, 1, 6), date(2024, 1, 8)},
		{date(2024, 1, 7), date(2024, 1, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.in.Weekday().String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NextOpenDay(tt.in))
		})
	}
}

func TestLastOpenDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, 1, 2), date(2024, 1, 1)},
		{date(2024, 1, 5), date(2024, 1, 4)},
		{date(2024, 1, 8), date(2024, 1, 5)},
		{date(2024, 1, 7), date(2024, 1, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.in.Weekday().String(), func(t *testing.T) {
			assert.Equal(t, tt.want, LastOpenDay(tt.in))
		})
	}
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{name: "today", day: wednesday, want: true},
		{name: "later today", day: wednesday.Add(8 * time.Hour), want: true},
		{name: "yesterday", day: date(2026, 10, 13), want: false},
		{name: "saturday", day: date(2026, 10, 17), want: false},
		{name: "sunday", day: date(2026, 10, 18), want: false},
		{name: "one week ahead", day: date(2026, 10, 21), want: true},
		{name: "eight days ahead", day: date(2026, 10, 22), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOpen(tt.day, wednesday))
		})
	}
}

func TestOpenDays(t *testing.T) {
	days := OpenDays(wednesday)
	require.Len(t, days, 6)
	assert.Equal(t, date(2026, 10, 14), days[0])
	assert.Equal(t, date(2026, 10, 21), days[len(days)-1])
	for _, d := range days {
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestService_Resolve(t *testing.T) {
	saturday := time.Date(2026, 10, 17, 9, 0, 0, 0, berlin)

	tests := []struct {
		name    string
		now     time.Time
		arg     string
		want    time.Time
		wantErr error
	}{
		{name: "no argument is today", now: wednesday, want: date(2026, 10, 14)},
		{name: "explicit weekday", now: wednesday, arg: "16.10.2026", want: date(2026, 10, 16)},
		{name: "weekend moves to monday", now: wednesday, arg: "17.10.2026", want: date(2026, 10, 19)},
		{name: "past date is clamped to today", now: wednesday, arg: "01.01.2020", want: date(2026, 10, 14)},
		{name: "iso date via fallback parser", now: wednesday, arg: "2026-10-15", want: date(2026, 10, 15)},
		{name: "one week ahead", now: wednesday, arg: "21.10.2026", want: date(2026, 10, 21)},
		{name: "beyond a week", now: wednesday, arg: "30.10.2026", wantErr: ErrOutOfRange},
		{name: "garbage", now: wednesday, arg: "quatsch", wantErr: ErrInvalidDate},
		{name: "saturday today moves to monday", now: saturday, want: date(2026, 10, 19)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newService(&fakeSource{}, tt.now).Resolve(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	raw := []RawMeal{
		rawMeal("Veganes Gericht", "Vegane Bowl", price(3.5), "glutenfrei", "Vegan", "Sesam", "Soja"),
		rawMeal("Fleischgericht", "Schnitzel", price(4.5), "Schwein", "Weizen", "Pommes"),
		rawMeal("Fleischgericht", "No Price", nil),
		rawMeal("Fischgericht", "  ", price(4.5)),
		rawMeal("Dessert", "Pudding", price(1.2)),
	}

	meals := Extract(raw)
	require.Len(t, meals, 2)

	assert.Equal(t, Meal{
		Type:       Vegan,
		Name:       "Vegane Bowl",
		Components: []string{"glutenfrei"},
		Price:      3.5,
		Allergens:  []string{"Sesam", "Soja"},
	}, meals[0])

	assert.Equal(t, Meat, meals[1].Type)
	assert.Equal(t, []string{"Pommes"}, meals[1].Components)
	assert.Equal(t, []string{"Weizen"}, meals[1].Allergens)
}

func TestPrice_String(t *testing.T) {
	assert.Equal(t, "3,50 €", Price(3.5).String())
	assert.Equal(t, "12,00 €", Price(12).String())
}

func TestFormat(t *testing.T) {
	day := date(2026, 10, 14)

	assert.Equal(t, "🍽️ Mensaplan für Mittwoch, 14.10.2026\n\nKeine Gerichte gefunden.", Format(day, nil))

	text := Format(day, []Meal{
		{Type: Pasta, Name: "Spaghetti", Price: 2.8},
		{Type: Fish, Name: "Lachs", Components: []string{"Reis"}, Price: 4.9, Allergens: []string{"Fisch"}},
	})
	assert.Contains(t, text, "🍝 Pastateller\nSpaghetti\nZutaten: Keine Angaben\n💶 2,80 €")
	assert.Contains(t, text, "🐟 Fischgericht\nLachs\nZutaten: Reis\n💶 4,90 € · Allergene: Fisch")
}

func TestClient_Meals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/canteens/69/days/2026-10-14/meals":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":1,"name":"Vegane Bowl","category":"Veganes Gericht","notes":["Soja"],"prices":{"students":3.5,"employees":5.2,"others":null}}]`))
		case "/canteens/69/days/2026-10-17/meals":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 69, 100)
	ctx := context.Background()

	meals, err := client.Meals(ctx, date(2026, 10, 14))
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Vegane Bowl", meals[0].Name)
	require.NotNil(t, meals[0].Prices.Students)
	assert.InDelta(t, 3.5, *meals[0].Prices.Students, 1e-9)
	assert.Nil(t, meals[0].Prices.Others)

	_, err = client.Meals(ctx, date(2026, 10, 17))
	assert.ErrorIs(t, err, ErrNoMenu)

	_, err = client.Meals(ctx, date(2026, 10, 18))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMenu)
}

func command(text string) *models.Message {
	return &models.Message{
		ID:   5,
		Chat: models.Chat{ID: -100},
		From: &models.User{ID: 1, FirstName: "Alice"},
		Text: text,
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		source *fakeSource
		want   string
	}{
		{
			name:   "today",
			text:   "/mensa",
			source: &fakeSource{meals: []RawMeal{rawMeal("Pastateller", "Spaghetti", price(2.8))}},
			want:   "🍽️ Mensaplan für Mittwoch, 14.10.2026",
		},
		{name: "invalid date", text: "/mensa quatsch", source: &fakeSource{}, want: msgInvalidDate},
		{name: "out of range", text: "/mensa 30.10.2026", source: &fakeSource{}, want: msgOutOfRange},
		{name: "no menu", text: "/mensa 16.10.2026", source: &fakeSource{err: ErrNoMenu}, want: "🍽️ Für 16.10.2026 gibt es keinen Mensaplan."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &telegramtest.MockClient{}
			client.On("Reply", mock.Anything, int64(-100), int64(5), mock.MatchedBy(func(text string) bool {
				return len(text) >= len(tt.want) && text[:len(tt.want)] == tt.want
			})).Return(&models.Message{}, nil).Once()

			h := NewHandler(newService(tt.source, wednesday), client)
			require.NoError(t, h.Handle(context.Background(), command(tt.text)))
			client.AssertExpectations(t)
		})
	}
}

func TestHandler_UpstreamError(t *testing.T) {
	boom := errors.New("boom")
	h := NewHandler(newService(&fakeSource{err: boom}, wednesday), &telegramtest.MockClient{})

	assert.ErrorIs(t, h.Handle(context.Background(), command("/mensa")), boom)
}

func TestPoster_Run(t *testing.T) {
	t.Run("posts on open days", func(t *testing.T) {
		source := &fakeSource{meals: []RawMeal{rawMeal("Pastateller", "Spaghetti", price(2.8))}}
		client := &telegramtest.MockClient{}
		client.On("SendText", mock.Anything, int64(-200), mock.MatchedBy(func(text string) bool {
			return len(text) > 0
		})).Return(&models.Message{}, nil).Once()

		p := NewPoster(newService(source, wednesday), client, -200, testutils.Logger(t))
		require.NoError(t, p.Run(context.Background()))
		client.AssertExpectations(t)
		require.Len(t, source.days, 1)
		assert.Equal(t, date(2026, 10, 14), source.days[0])
	})

	t.Run("skips weekends", func(t *testing.T) {
		source := &fakeSource{}
		client := &telegramtest.MockClient{}
		sunday := time.Date(2026, 10, 18, 6, 0, 0, 0, berlin)

		p := NewPoster(newService(source, sunday), client, -200, testutils.Logger(t))
		require.NoError(t, p.Run(context.Background()))
		assert.Empty(t, source.days)
		client.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("skips days without menu", func(t *testing.T) {
		client := &telegramtest.MockClient{}
		p := NewPoster(newService(&fakeSource{err: ErrNoMenu}, wednesday), client, -200, testutils.Logger(t))
		require.NoError(t, p.Run(context.Background()))
		client.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
	})
}
