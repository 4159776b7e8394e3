package quotes

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/graffic/campusbot/internal/observability"
	"github.com/graffic/campusbot/internal/similarity"
)

// Input caps keep scoring cost bounded.
const (
	MaxSourceLength = 2000
	MaxFilterLength = 1000
)

// ErrEmptyCorpus means no quote has been stored yet. It is different from a
// search without matches, which returns an empty result.
var ErrEmptyCorpus = errors.New("quotes: no quotes stored")

// Corpus is the read side of the quote store used by the searcher
type Corpus interface {
	All(ctx context.Context) ([]Quote, error)
	Random(ctx context.Context) (*Quote, error)
}

// Weights combine the text and user scores of a quote. They sum to 1.
type Weights struct {
	Text float64
	User float64
}

// DefaultWeights favour the quoted text over the people involved.
var DefaultWeights = Weights{Text: 0.7, User: 0.3}

// DefaultThreshold is the score a quote has to exceed to match a search.
const DefaultThreshold = 50

// Searcher ranks and samples quotes
type Searcher struct {
	corpus    Corpus
	weights   Weights
	threshold int
	intN      func(n int) int
}

// NewSearcher creates a searcher over corpus
func NewSearcher(corpus Corpus, weights Weights, threshold int) *Searcher {
	return &Searcher{
		corpus:    corpus,
		weights:   weights,
		threshold: threshold,
		intN:      rand.IntN,
	}
}

// Rank scores a quote against a search term and a user name in [0, 100].
// A blank term or user contributes nothing. When only one of the two scores
// is non-zero it is returned as is; only two non-zero scores are averaged.
func (s *Searcher) Rank(q *Quote, term, user string) int {
	term = normalizeFilter(term)
	user = normalizeFilter(user)

	textScore := 0
	if term != "" {
		for _, src := range q.TextSources() {
			textScore = max(textScore, similarity.TokenSetRatio(term, similarity.Clip(src, MaxSourceLength)))
		}
	}

	userScore := 0
	if user != "" {
		for _, name := range q.Names() {
			userScore = max(userScore, similarity.TokenSetRatio(user, similarity.Clip(name, MaxSourceLength)))
		}
	}

	switch {
	case textScore == 0:
		return userScore
	case userScore == 0:
		return textScore
	default:
		return int(math.Round(float64(textScore)*s.weights.Text + float64(userScore)*s.weights.User))
	}
}

// Search returns num quotes drawn uniformly with replacement from those
// scoring above the threshold. No match yields an empty result. Without a
// term and user it falls back to Random.
func (s *Searcher) Search(ctx context.Context, term, user string, num int) ([]Quote, error) {
	if normalizeFilter(term) == "" && normalizeFilter(user) == "" {
		return s.Random(ctx, num)
	}

	start := time.Now()
	all, err := s.corpus.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		observability.QuoteSearches.WithLabelValues("empty_corpus").Inc()
		return nil, ErrEmptyCorpus
	}

	var matches []*Quote
	for i := range all {
		if s.Rank(&all[i], term, user) > s.threshold {
			matches = append(matches, &all[i])
		}
	}
	observability.QuoteSearchDuration.Observe(time.Since(start).Seconds())

	if len(matches) == 0 || num <= 0 {
		observability.QuoteSearches.WithLabelValues("no_match").Inc()
		return nil, nil
	}
	observability.QuoteSearches.WithLabelValues("match").Inc()

	result := make([]Quote, num)
	for i := range result {
		result[i] = *matches[s.intN(len(matches))]
	}
	return result, nil
}

// Random returns num uniformly chosen quotes from the whole corpus, repeats
// allowed. With num <= 0 it only checks that the corpus is not empty.
func (s *Searcher) Random(ctx context.Context, num int) ([]Quote, error) {
	result := make([]Quote, 0, max(num, 0))
	for range max(num, 1) {
		q, err := s.corpus.Random(ctx)
		if err != nil {
			return nil, err
		}
		if num > 0 {
			result = append(result, *q)
		}
	}
	observability.QuoteSearches.WithLabelValues("random").Inc()
	return result, nil
}

func normalizeFilter(s string) string {
	return similarity.Clip(strings.TrimSpace(s), MaxFilterLength)
}
