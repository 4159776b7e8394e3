package quotes

import (
	"time"

	"github.com/graffic/campusbot/internal/identity"
	"gorm.io/datatypes"
)

// Quote is a stored group of messages filed by a reporter
type Quote struct {
	ID           uint               `gorm:"primaryKey"`
	ReporterID   int64              `gorm:"not null"`
	Reporter     *identity.Identity `gorm:"foreignKey:ReporterID"`
	ChatID       int64              `gorm:"not null"`
	DateReported time.Time          `gorm:"not null"`
	Comment      *string
	CreatedAt    time.Time

	// Ordered by Position
	Messages []QuoteMessage `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}

// QuoteMessage is one message of a quote
type QuoteMessage struct {
	ID       uint               `gorm:"primaryKey"`
	QuoteID  uint               `gorm:"not null"`
	Position int                `gorm:"not null"`
	Content  string             `gorm:"not null;default:''"`
	AuthorID int64              `gorm:"not null"`
	Author   *identity.Identity `gorm:"foreignKey:AuthorID"`
	Date     time.Time          `gorm:"not null"`
	Link     string             `gorm:"not null;default:''"`
	Source   datatypes.JSON     `gorm:"type:jsonb"`
}

// TableName specifies the table name for QuoteMessage
func (QuoteMessage) TableName() string {
	return "quote_messages"
}

// TextSources returns the texts a search term is matched against: the comment
// and every non-empty message.
func (q *Quote) TextSources() []string {
	sources := make([]string, 0, len(q.Messages)+1)
	if q.Comment != nil && *q.Comment != "" {
		sources = append(sources, *q.Comment)
	}
	for _, m := range q.Messages {
		if m.Content != "" {
			sources = append(sources, m.Content)
		}
	}
	return sources
}

// Names returns the reporter's name followed by every author's name.
func (q *Quote) Names() []string {
	names := make([]string, 0, len(q.Messages)+1)
	names = append(names, q.Reporter.Name())
	for _, m := range q.Messages {
		names = append(names, m.Author.Name())
	}
	return names
}
