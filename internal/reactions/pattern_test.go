package reactions

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func emoji(e string) models.ReactionType {
	return models.ReactionType{
		Type:              models.ReactionTypeTypeEmoji,
		ReactionTypeEmoji: &models.ReactionTypeEmoji{Type: models.ReactionTypeTypeEmoji, Emoji: e},
	}
}

func custom(id string) models.ReactionType {
	return models.ReactionType{
		Type:                    models.ReactionTypeTypeCustomEmoji,
		ReactionTypeCustomEmoji: &models.ReactionTypeCustomEmoji{Type: models.ReactionTypeTypeCustomEmoji, CustomEmojiID: id},
	}
}

func TestToken(t *testing.T) {
	tests := []struct {
		name   string
		in     models.ReactionType
		want   string
		wantOK bool
	}{
		{name: "emoji", in: emoji("👍"), want: "👍", wantOK: true},
		{name: "custom emoji", in: custom("5368324170671202286"), want: "<custom:5368324170671202286>", wantOK: true},
		{name: "paid", in: models.ReactionType{Type: "paid"}},
		{name: "empty emoji", in: models.ReactionType{Type: models.ReactionTypeTypeEmoji}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Token(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReactionType_RoundTrip(t *testing.T) {
	for _, tok := range []string{"👍", "<custom:42>"} {
		got, ok := Token(ReactionType(tok))
		assert.True(t, ok)
		assert.Equal(t, tok, got)
	}
}

func TestAdded(t *testing.T) {
	tests := []struct {
		name   string
		before []models.ReactionType
		after  []models.ReactionType
		want   []string
	}{
		{name: "first reaction", after: []models.ReactionType{emoji("👍")}, want: []string{"👍"}},
		{name: "removed reaction", before: []models.ReactionType{emoji("👍")}},
		{
			name:   "one of two is new",
			before: []models.ReactionType{emoji("👍")},
			after:  []models.ReactionType{emoji("👍"), custom("7")},
			want:   []string{"<custom:7>"},
		},
		{
			name:  "duplicates collapse",
			after: []models.ReactionType{emoji("🔥"), emoji("🔥")},
			want:  []string{"🔥"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, added(tt.before, tt.after))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world", Normalize("  Hello World \n"))
	assert.Len(t, []rune(Normalize(strings.Repeat("ä", MaxContentLength+10))), MaxContentLength)
}
