package quotes

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/graffic/campusbot/internal/identity"
	"github.com/graffic/campusbot/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCorpus struct {
	quotes []Quote
	err    error
}

func (f *fakeCorpus) All(context.Context) ([]Quote, error) {
	return f.quotes, f.err
}

func (f *fakeCorpus) Random(context.Context) (*Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.quotes) == 0 {
		return nil, ErrEmptyCorpus
	}
	return &f.quotes[len(f.quotes)-1], nil
}

func person(name string) *identity.Identity {
	return &identity.Identity{DisplayName: name}
}

// testQuote builds a quote reported and written by reporter.
func testQuote(id uint, reporter string, comment string, contents ...string) Quote {
	q := Quote{ID: id, Reporter: person(reporter), DateReported: time.Now()}
	if comment != "" {
		q.Comment = &comment
	}
	for i, c := range contents {
		q.Messages = append(q.Messages, QuoteMessage{Position: i, Content: c, Author: person(reporter)})
	}
	return q
}

func scenarioCorpus() *fakeCorpus {
	return &fakeCorpus{quotes: []Quote{
		testQuote(1, "Alice", "", "the build is broken"),
		testQuote(2, "Bob", "", "broken pipeline again"),
	}}
}

func ids(quotes []Quote) []uint {
	out := make([]uint, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q.ID)
	}
	return out
}

func TestSearcher_Rank(t *testing.T) {
	s := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold)
	a := testQuote(1, "Alice", "", "the build is broken")
	b := testQuote(2, "Bob", "", "broken pipeline again")

	tests := []struct {
		name     string
		quote    Quote
		term     string
		user     string
		expected int
	}{
		{"no filters", a, "", "", 0},
		{"blank filters", a, "   ", "\t", 0},
		{"exact text only", a, "the build is broken", "", 100},
		{"contained term", a, "broken", "", 100},
		{"user only", a, "", "Alice", 100},
		{"zero user score passes text through", b, "broken", "Alice", 100},
		{"zero text score passes user through", a, "", "alice", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Rank(&tt.quote, tt.term, tt.user))
		})
	}
}

func TestSearcher_Rank_WeightedWhenBothMatch(t *testing.T) {
	s := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold)
	q := testQuote(1, "Alice Smith", "", "the build is broken")

	term, user := "broken pipeline", "Alice"
	textScore := similarity.TokenSetRatio(term, "the build is broken")
	userScore := similarity.TokenSetRatio(user, "Alice Smith")
	require.NotZero(t, textScore)
	require.NotZero(t, userScore)
	require.NotEqual(t, textScore, userScore)

	expected := int(math.Round(float64(textScore)*0.7 + float64(userScore)*0.3))
	assert.Equal(t, expected, s.Rank(&q, term, user))
}

func TestSearcher_Rank_UsesBestSource(t *testing.T) {
	s := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold)
	q := testQuote(1, "Alice", "mensa drama", "unrelated words here", "another message")
	q.Messages[1].Author = person("Carol")

	assert.Equal(t, 100, s.Rank(&q, "drama", ""))
	assert.Equal(t, 100, s.Rank(&q, "another message", ""))
	assert.Equal(t, 100, s.Rank(&q, "", "carol"))
}

func TestSearcher_Rank_CapsSources(t *testing.T) {
	s := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold)
	long := strings.Repeat("filler ", MaxSourceLength) + "needle"
	q := testQuote(1, "Alice", "", long)

	assert.Less(t, s.Rank(&q, "needle", ""), 100)
}

func TestSearcher_Rank_Bounds(t *testing.T) {
	s := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold)
	quotes := scenarioCorpus().quotes
	inputs := []string{"", "broken", "Alice", "xyzzy", "the build", "🚀"}

	for i := range quotes {
		for _, term := range inputs {
			for _, user := range inputs {
				score := s.Rank(&quotes[i], term, user)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestSearcher_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("term matches both quotes", func(t *testing.T) {
		s := NewSearcher(scenarioCorpus(), DefaultWeights, DefaultThreshold)
		found, err := s.Search(ctx, "broken", "", 5)
		require.NoError(t, err)
		assert.Len(t, found, 5)
		for _, id := range ids(found) {
			assert.Contains(t, []uint{1, 2}, id)
		}
	})

	t.Run("results are above the threshold", func(t *testing.T) {
		corpus := scenarioCorpus()
		corpus.quotes = append(corpus.quotes, testQuote(3, "Carol", "", "lunch menu tomorrow"))
		s := NewSearcher(corpus, DefaultWeights, DefaultThreshold)

		found, err := s.Search(ctx, "pipeline", "", 10)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(found), 10)
		for i := range found {
			assert.Greater(t, s.Rank(&found[i], "pipeline", ""), DefaultThreshold)
		}
		assert.NotContains(t, ids(found), uint(3))
	})

	t.Run("partial term overlap matches", func(t *testing.T) {
		s := NewSearcher(scenarioCorpus(), DefaultWeights, DefaultThreshold)
		found, err := s.Search(ctx, "build failed", "", 3)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 1, 1}, ids(found))
	})

	t.Run("no match is empty without error", func(t *testing.T) {
		s := NewSearcher(scenarioCorpus(), DefaultWeights, DefaultThreshold)
		found, err := s.Search(ctx, "xyzzynomatch", "", 3)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("score equal to threshold is excluded", func(t *testing.T) {
		q := testQuote(1, "Alice", "", "the build is broken")
		score := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold).Rank(&q, "build", "")

		s := NewSearcher(&fakeCorpus{quotes: []Quote{q}}, DefaultWeights, score)
		found, err := s.Search(ctx, "build", "", 1)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("empty corpus", func(t *testing.T) {
		s := NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold)

		_, err := s.Search(ctx, "", "", 1)
		assert.ErrorIs(t, err, ErrEmptyCorpus)

		_, err = s.Search(ctx, "broken", "", 1)
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})

	t.Run("no filters returns random quotes", func(t *testing.T) {
		s := NewSearcher(scenarioCorpus(), DefaultWeights, DefaultThreshold)
		found, err := s.Search(ctx, "  ", "", 2)
		require.NoError(t, err)
		assert.Equal(t, []uint{2, 2}, ids(found))
	})

	t.Run("sampling is with replacement", func(t *testing.T) {
		s := NewSearcher(scenarioCorpus(), DefaultWeights, DefaultThreshold)
		s.intN = func(int) int { return 0 }

		found, err := s.Search(ctx, "broken", "", 3)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 1, 1}, ids(found))
	})

	t.Run("store errors propagate", func(t *testing.T) {
		boom := errors.New("db down")
		s := NewSearcher(&fakeCorpus{err: boom}, DefaultWeights, DefaultThreshold)

		_, err := s.Search(ctx, "broken", "", 1)
		assert.ErrorIs(t, err, boom)
	})
}

func TestSearcher_Random(t *testing.T) {
	ctx := context.Background()

	s := NewSearcher(scenarioCorpus(), DefaultWeights, DefaultThreshold)
	found, err := s.Random(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = NewSearcher(&fakeCorpus{}, DefaultWeights, DefaultThreshold).Random(ctx, 1)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestParseSearch(t *testing.T) {
	tests := []struct {
		args string
		term string
		user string
	}{
		{"", "", ""},
		{"broken build", "broken build", ""},
		{"broken | Alice", "broken", "Alice"},
		{"| Alice", "", "Alice"},
		{"a | b | c", "a", "b | c"},
	}

	for _, tt := range tests {
		term, user := ParseSearch(tt.args)
		assert.Equal(t, tt.term, term, tt.args)
		assert.Equal(t, tt.user, user, tt.args)
	}
}
