package quotes

import (
	"encoding/json"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/cache"
	"github.com/graffic/campusbot/internal/identity"
	"github.com/graffic/campusbot/internal/telegram"
)

// Excerpt is a message as it is about to be quoted, detached from Telegram's
// message type. An Author with a zero ID is stored as an external identity
// under its display name.
type Excerpt struct {
	Content string
	Author  identity.Profile
	Link    string
	Date    time.Time
	Source  json.RawMessage
}

// AuthorName returns the name shown under the excerpt.
func (e Excerpt) AuthorName() string {
	if e.Author.DisplayName == "" {
		return identity.Unknown
	}
	return e.Author.DisplayName
}

// ExcerptFromCache builds an excerpt from a cached message.
func ExcerptFromCache(msg *cache.Message) Excerpt {
	source, _ := json.Marshal(msg)
	return Excerpt{
		Content: msg.Body(),
		Author:  identity.FromTelegramUser(msg.TelegramUser()),
		Link:    telegram.MessageLink(msg.Chat.ID, msg.Chat.Username, msg.MessageID),
		Date:    time.Unix(msg.Date, 0),
		Source:  source,
	}
}

// ExcerptFromMessage builds an excerpt from a Telegram message.
func ExcerptFromMessage(msg *models.Message) Excerpt {
	return ExcerptFromCache(cache.FromTelegram(msg))
}

// ExternalExcerpt builds an excerpt credited to someone without an account.
func ExternalExcerpt(author, content string, date time.Time) Excerpt {
	return Excerpt{
		Content: content,
		Author:  identity.Profile{DisplayName: author, GlobalName: author},
		Date:    date,
	}
}
