package reactions_test

import (
	"context"
	"testing"

	"github.com/graffic/campusbot/internal/reactions"
	"github.com/graffic/campusbot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Record(t *testing.T) {
	db := testutils.NewTestDB(t)
	store := reactions.NewStore(db.DB.DB)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "Wann ist die Klausur?", "😱", -100))
	require.NoError(t, store.Record(ctx, "  wann ist die klausur?", "😱", -100))
	require.NoError(t, store.Record(ctx, "Wann ist die Klausur?", "📚", -100))
	require.NoError(t, store.Record(ctx, "Wann ist die Klausur?", "😱", -200))

	p, err := store.Find(ctx, "WANN IST DIE KLAUSUR?", "😱", -100)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, "wann ist die klausur?", p.MessageContent)
	assert.False(t, p.LastSeen.Before(p.CreatedAt))

	candidates, err := store.Candidates(ctx, -100, 2)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "😱", candidates[0].Reaction)

	all, err := store.Candidates(ctx, -100, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_RecordLongContent(t *testing.T) {
	db := testutils.NewTestDB(t)
	store := reactions.NewStore(db.DB.DB)
	ctx := context.Background()

	// Varied CJK runes do not compress, so the raw text is far above the
	// btree row limit.
	runes := make([]rune, reactions.MaxContentLength)
	for i := range runes {
		runes[i] = rune(0x4E00 + (i*7919)%20000)
	}
	content := string(runes)

	require.NoError(t, store.Record(ctx, content, "🤯", -100))
	require.NoError(t, store.Record(ctx, content, "🤯", -100))

	p, err := store.Find(ctx, content, "🤯", -100)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count)
	assert.Len(t, []rune(p.MessageContent), reactions.MaxContentLength)
}

func TestStore_RecordRejectsEmpty(t *testing.T) {
	db := testutils.NewTestDB(t)
	store := reactions.NewStore(db.DB.DB)
	ctx := context.Background()

	assert.ErrorIs(t, store.Record(ctx, "   ", "😱", -100), reactions.ErrInvalidPattern)
	assert.ErrorIs(t, store.Record(ctx, "text", "", -100), reactions.ErrInvalidPattern)
}

func TestStore_Stats(t *testing.T) {
	db := testutils.NewTestDB(t)
	store := reactions.NewStore(db.DB.DB)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, store.Record(ctx, "pizza day", "🍕", -100))
	}
	require.NoError(t, store.Record(ctx, "exam tomorrow", "😱", -100))
	require.NoError(t, store.Record(ctx, "other chat", "👍", -300))

	stats, err := store.Stats(ctx, -100, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Patterns)
	assert.Equal(t, int64(4), stats.Observations)
	require.Len(t, stats.Top, 1)
	assert.Equal(t, "🍕", stats.Top[0].Reaction)

	empty, err := store.Stats(ctx, -999, 5)
	require.NoError(t, err)
	assert.Zero(t, empty.Patterns)
	assert.Zero(t, empty.Observations)
	assert.Empty(t, empty.Top)
}

func TestLearnerAndSuggester_EndToEnd(t *testing.T) {
	db := testutils.NewTestDB(t)
	store := reactions.NewStore(db.DB.DB)
	ctx := context.Background()

	for range 2 {
		require.NoError(t, store.Record(ctx, "Freibier in der Mensa", "🍺", -100))
	}

	matcher := reactions.NewMatcher(store, 2, 0.6)
	got, err := matcher.Find(ctx, "freibier in der mensa!!", -100)
	require.NoError(t, err)
	assert.Equal(t, []string{"🍺"}, got)
}
