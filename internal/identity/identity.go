// Package identity persists the people quotes are attributed to.
//
// Telegram accounts keep their platform id. Authors without an account, such as
// a famous person credited by /customquote, get an external identity with a
// negative id so the two id spaces never collide.
package identity

import (
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
)

// Unknown is the display name used when a user has no usable name.
const Unknown = "Unknown"

// Identity is a stored quote author or reporter.
type Identity struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	GlobalName  string `gorm:"not null;default:''"`
	DisplayName string `gorm:"not null;default:''"`
	IsExternal  bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for Identity
func (Identity) TableName() string {
	return "identities"
}

// Name returns the best name to show for the identity.
func (i *Identity) Name() string {
	if i == nil {
		return Unknown
	}
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if i.GlobalName != "" {
		return i.GlobalName
	}
	return Unknown
}

// Profile describes a platform account at the moment it was seen.
type Profile struct {
	ID          int64
	GlobalName  string
	DisplayName string
	IsBot       bool
}

// FromTelegramUser builds a profile from a Telegram user. The display name is
// "First Last", falling back to @username and then Unknown. The global name is
// the username when there is one.
func FromTelegramUser(u *models.User) Profile {
	if u == nil {
		return Profile{DisplayName: Unknown, GlobalName: Unknown}
	}

	display := DisplayName(u.FirstName, u.LastName, u.Username)
	global := display
	if u.Username != "" {
		global = "@" + u.Username
	}

	return Profile{
		ID:          u.ID,
		GlobalName:  global,
		DisplayName: display,
		IsBot:       u.IsBot,
	}
}

// DisplayName builds a display name from Telegram user fields
func DisplayName(firstName, lastName, username string) string {
	name := strings.TrimSpace(strings.Join([]string{firstName, lastName}, " "))

	if name == "" && username != "" {
		name = "@" + username
	}

	if name == "" {
		name = Unknown
	}

	return name
}
