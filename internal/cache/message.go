package cache

import (
	"encoding/json"
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Message is the cached subset of a Telegram message
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"`
	EditDate  int64  `json:"edit_date,omitempty"`
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
	From      *User  `json:"from,omitempty"`
	ReplyToID *int64 `json:"reply_to_message_id,omitempty"`
}

// Chat represents a Telegram chat
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
}

// User represents a Telegram user
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Body returns the text of the message, or its caption for media.
func (m *Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// TelegramUser converts the sender back into the Telegram model.
func (m *Message) TelegramUser() *models.User {
	if m.From == nil {
		return nil
	}
	return &models.User{
		ID:        m.From.ID,
		IsBot:     m.From.IsBot,
		FirstName: m.From.FirstName,
		LastName:  m.From.LastName,
		Username:  m.From.Username,
	}
}

// FromTelegram converts a Telegram message into its cached form
func FromTelegram(msg *models.Message) *Message {
	cached := &Message{
		MessageID: int64(msg.ID),
		Chat: Chat{
			ID:       msg.Chat.ID,
			Type:     string(msg.Chat.Type),
			Username: msg.Chat.Username,
		},
		Date:     int64(msg.Date),
		EditDate: int64(msg.EditDate),
		Text:     msg.Text,
		Caption:  msg.Caption,
	}

	if msg.From != nil {
		cached.From = &User{
			ID:        msg.From.ID,
			IsBot:     msg.From.IsBot,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Username:  msg.From.Username,
		}
	}

	if msg.ReplyToMessage != nil {
		replyID := int64(msg.ReplyToMessage.ID)
		cached.ReplyToID = &replyID
	}

	return cached
}

func decodeMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached message: %w", err)
	}
	return &msg, nil
}
