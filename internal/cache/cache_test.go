package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/cache"
	"github.com/graffic/campusbot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(chatID, id int64, text string, replyTo *int64) *cache.Message {
	return &cache.Message{
		MessageID: id,
		Chat:      cache.Chat{ID: chatID, Type: "supergroup"},
		Date:      time.Now().Unix(),
		Text:      text,
		From:      &cache.User{ID: 100 + id, FirstName: "User"},
		ReplyToID: replyTo,
	}
}

func ptr(v int64) *int64 { return &v }

func TestService_AddAndGet(t *testing.T) {
	db := testutils.NewTestDB(t)
	service := cache.NewService(db.DB.DB)
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, message(-100, 1, "first", nil)))
	require.NoError(t, service.Add(ctx, message(-100, 1, "first again", nil)))

	msg, ok, err := service.GetMessage(ctx, -100, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first again", msg.Text)
	assert.Equal(t, int64(101), msg.From.ID)

	var count int64
	require.NoError(t, db.Model(&cache.CacheEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, ok, err = service.GetMessage(ctx, -100, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Edit(t *testing.T) {
	db := testutils.NewTestDB(t)
	service := cache.NewService(db.DB.DB)
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, message(-100, 1, "typo", nil)))

	edited := message(-100, 1, "fixed", nil)
	ok, err := service.Edit(ctx, edited)
	require.NoError(t, err)
	assert.True(t, ok)

	msg, _, err := service.GetMessage(ctx, -100, 1)
	require.NoError(t, err)
	assert.Equal(t, "fixed", msg.Text)

	ok, err = service.Edit(ctx, message(-100, 2, "never cached", nil))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_GetChain(t *testing.T) {
	db := testutils.NewTestDB(t)
	service := cache.NewService(db.DB.DB)
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, message(-100, 1, "root", nil)))
	require.NoError(t, service.Add(ctx, message(-100, 2, "reply", ptr(1))))
	require.NoError(t, service.Add(ctx, message(-100, 3, "reply to reply", ptr(2))))
	require.NoError(t, service.Add(ctx, message(-200, 2, "other chat", nil)))

	tests := []struct {
		name     string
		start    int64
		maxDepth int
		expected []int64
	}{
		{"full chain oldest first", 3, 0, []int64{1, 2, 3}},
		{"depth limited keeps newest", 3, 2, []int64{2, 3}},
		{"single message", 1, 5, []int64{1}},
		{"missing start", 42, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := service.GetChain(ctx, -100, tt.start, tt.maxDepth)
			require.NoError(t, err)

			var ids []int64
			for _, e := range entries {
				ids = append(ids, e.MessageID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestService_GetChain_Cycle(t *testing.T) {
	db := testutils.NewTestDB(t)
	service := cache.NewService(db.DB.DB)
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, message(-100, 1, "a", ptr(2))))
	require.NoError(t, service.Add(ctx, message(-100, 2, "b", ptr(1))))

	entries, err := service.GetChain(ctx, -100, 2, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCleaner_Run(t *testing.T) {
	db := testutils.NewTestDB(t)
	service := cache.NewService(db.DB.DB)
	ctx := context.Background()

	old := message(-100, 1, "old", nil)
	old.Date = time.Now().Add(-72 * time.Hour).Unix()
	require.NoError(t, service.Add(ctx, old))
	require.NoError(t, service.Add(ctx, message(-100, 2, "fresh", nil)))

	cleaner := cache.NewCleaner(service, 48*time.Hour, testutils.Logger(t))
	require.NoError(t, cleaner.Run(ctx))

	_, ok, err := service.GetMessage(ctx, -100, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = service.GetMessage(ctx, -100, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFromTelegram(t *testing.T) {
	msg := cache.FromTelegram(&models.Message{
		ID:      7,
		Date:    1700000000,
		Chat:    models.Chat{ID: -100, Type: "supergroup", Username: "campus"},
		Caption: "photo caption",
		From:    &models.User{ID: 5, FirstName: "Ada", Username: "ada", IsBot: false},
		ReplyToMessage: &models.Message{
			ID: 3,
		},
	})

	assert.Equal(t, int64(7), msg.MessageID)
	assert.Equal(t, int64(-100), msg.Chat.ID)
	assert.Equal(t, "campus", msg.Chat.Username)
	assert.Equal(t, "photo caption", msg.Body())
	require.NotNil(t, msg.ReplyToID)
	assert.Equal(t, int64(3), *msg.ReplyToID)
	assert.Equal(t, "Ada", msg.TelegramUser().FirstName)
}
