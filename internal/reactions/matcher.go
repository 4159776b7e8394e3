package reactions

import (
	"context"
	"sort"

	"github.com/graffic/campusbot/internal/similarity"
)

// PatternSource loads the patterns eligible for suggestions
type PatternSource interface {
	Candidates(ctx context.Context, chatID int64, minCount int) ([]Pattern, error)
}

// Match is a pattern that is similar enough to a message
type Match struct {
	Reaction   string
	Similarity float64
	Count      int
}

// Weight ranks matches: strong and frequently reinforced patterns come first.
func (m Match) Weight() float64 {
	return m.Similarity * float64(m.Count)
}

// Matcher finds learned reactions for new messages
type Matcher struct {
	source    PatternSource
	minCount  int
	threshold float64
}

// NewMatcher creates a matcher. Patterns seen fewer than minCount times or
// less similar than threshold (0..1) are never suggested.
func NewMatcher(source PatternSource, minCount int, threshold float64) *Matcher {
	return &Matcher{
		source:    source,
		minCount:  minCount,
		threshold: threshold,
	}
}

// Matches returns the matching patterns of a chat ordered by Weight, highest
// first. Reactions may repeat when several patterns match.
func (m *Matcher) Matches(ctx context.Context, content string, chatID int64) ([]Match, error) {
	content = Normalize(content)
	if content == "" {
		return nil, nil
	}

	patterns, err := m.source.Candidates(ctx, chatID, m.minCount)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, p := range patterns {
		if p.Count < m.minCount {
			continue
		}
		sim := similarity.Fraction(content, p.MessageContent)
		if sim >= m.threshold {
			matches = append(matches, Match{Reaction: p.Reaction, Similarity: sim, Count: p.Count})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Weight() > matches[j].Weight()
	})
	return matches, nil
}

// Find returns the reactions of Matches in order.
func (m *Matcher) Find(ctx context.Context, content string, chatID int64) ([]string, error) {
	matches, err := m.Matches(ctx, content, chatID)
	if err != nil {
		return nil, err
	}

	reactions := make([]string, 0, len(matches))
	for _, match := range matches {
		reactions = append(reactions, match.Reaction)
	}
	return reactions, nil
}
