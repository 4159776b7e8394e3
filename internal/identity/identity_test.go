package identity

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		username  string
		expected  string
	}{
		{"first and last", "Ada", "Lovelace", "ada", "Ada Lovelace"},
		{"first only", "Ada", "", "ada", "Ada"},
		{"last only", "", "Lovelace", "", "Lovelace"},
		{"username fallback", "", "", "ada", "@ada"},
		{"nothing", "", "", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.firstName, tt.lastName, tt.username))
		})
	}
}

func TestFromTelegramUser(t *testing.T) {
	p := FromTelegramUser(&models.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", Username: "ada"})
	assert.Equal(t, Profile{ID: 42, GlobalName: "@ada", DisplayName: "Ada Lovelace"}, p)

	p = FromTelegramUser(&models.User{ID: 7, FirstName: "Bot", IsBot: true})
	assert.Equal(t, "Bot", p.GlobalName)
	assert.True(t, p.IsBot)

	p = FromTelegramUser(nil)
	assert.Equal(t, Unknown, p.DisplayName)
}

func TestIdentityName(t *testing.T) {
	var nilIdent *Identity
	assert.Equal(t, Unknown, nilIdent.Name())
	assert.Equal(t, "Ada", (&Identity{DisplayName: "Ada", GlobalName: "@ada"}).Name())
	assert.Equal(t, "@ada", (&Identity{GlobalName: "@ada"}).Name())
	assert.Equal(t, Unknown, (&Identity{}).Name())
}
