// Package reactions learns which reactions people give to which messages and
// suggests the learned reactions for similar new messages in the same chat.
package reactions

import (
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/similarity"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxContentLength caps stored and compared message text.
const MaxContentLength = 4096

// Pattern is a learned association between a message text and a reaction in
// one chat. Count grows with every repeated observation.
//
// Rows are unique on (md5(message_content), reaction, chat_id). The hash is a
// generated column so long texts stay under the btree row size limit.
type Pattern struct {
	ID             uint      `gorm:"primaryKey"`
	MessageContent string    `gorm:"not null"`
	Reaction       string    `gorm:"not null"`
	Count          int       `gorm:"not null;default:1"`
	ChatID         int64     `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	LastSeen       time.Time `gorm:"not null"`
}

// TableName specifies the table name for Pattern
func (Pattern) TableName() string {
	return "reaction_patterns"
}

// Normalize lower-cases and trims message text before it is stored or compared.
func Normalize(content string) string {
	lower := cases.Lower(language.Und).String(similarity.Clip(content, MaxContentLength))
	return strings.TrimSpace(lower)
}

const (
	customPrefix = "<custom:"
	customSuffix = ">"
)

// Token converts a Telegram reaction into its stored form: the emoji itself,
// or <custom:ID> for custom emoji. Paid and unknown reactions yield false.
func Token(r models.ReactionType) (string, bool) {
	switch r.Type {
	case models.ReactionTypeTypeEmoji:
		if r.ReactionTypeEmoji == nil || r.ReactionTypeEmoji.Emoji == "" {
			return "", false
		}
		return r.ReactionTypeEmoji.Emoji, true
	case models.ReactionTypeTypeCustomEmoji:
		if r.ReactionTypeCustomEmoji == nil || r.ReactionTypeCustomEmoji.CustomEmojiID == "" {
			return "", false
		}
		return customPrefix + r.ReactionTypeCustomEmoji.CustomEmojiID + customSuffix, true
	default:
		return "", false
	}
}

// ReactionType converts a stored token back into a Telegram reaction.
func ReactionType(token string) models.ReactionType {
	if id, ok := strings.CutPrefix(token, customPrefix); ok && strings.HasSuffix(id, customSuffix) {
		return models.ReactionType{
			Type: models.ReactionTypeTypeCustomEmoji,
			ReactionTypeCustomEmoji: &models.ReactionTypeCustomEmoji{
				Type:          models.ReactionTypeTypeCustomEmoji,
				CustomEmojiID: strings.TrimSuffix(id, customSuffix),
			},
		}
	}
	return models.ReactionType{
		Type: models.ReactionTypeTypeEmoji,
		ReactionTypeEmoji: &models.ReactionTypeEmoji{
			Type:  models.ReactionTypeTypeEmoji,
			Emoji: token,
		},
	}
}

// added returns the tokens present in after but not in before.
func added(before, after []models.ReactionType) []string {
	seen := make(map[string]bool, len(before))
	for _, r := range before {
		if tok, ok := Token(r); ok {
			seen[tok] = true
		}
	}

	var out []string
	for _, r := range after {
		tok, ok := Token(r)
		if !ok || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
