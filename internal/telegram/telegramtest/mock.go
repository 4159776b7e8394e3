// Package telegramtest provides test doubles for the telegram package.
package telegramtest

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock of telegram.Client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) SendText(ctx context.Context, chatID int64, text string) (*models.Message, error) {
	args := m.Called(ctx, chatID, text)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockClient) Reply(ctx context.Context, chatID int64, messageID int64, text string) (*models.Message, error) {
	args := m.Called(ctx, chatID, messageID, text)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockClient) SetReaction(ctx context.Context, chatID int64, messageID int64, reaction models.ReactionType) error {
	args := m.Called(ctx, chatID, messageID, reaction)
	return args.Error(0)
}
