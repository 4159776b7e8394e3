package mensa

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/telegram"
)

const (
	msgInvalidDate = "❌ Ungültiges Datum. Format: TT.MM.JJJJ"
	msgOutOfRange  = "❌ Für diesen Tag gibt es noch keinen Mensaplan."
	msgNoMenu      = "🍽️ Für %s gibt es keinen Mensaplan."
)

// Handler handles /mensa
type Handler struct {
	service *Service
	client  telegram.Client
}

// NewHandler creates a new mensa handler
func NewHandler(service *Service, client telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

func (h *Handler) Command() string { return "mensa" }

func (h *Handler) Description() string {
	return "Mensaplan anzeigen [TT.MM.JJJJ]"
}

func (h *Handler) Handle(ctx context.Context, msg *models.Message) error {
	day, err := h.service.Resolve(bot.Args(msg.Text))
	switch {
	case errors.Is(err, ErrInvalidDate):
		return h.reply(ctx, msg, msgInvalidDate)
	case errors.Is(err, ErrOutOfRange):
		return h.reply(ctx, msg, msgOutOfRange)
	case err != nil:
		return err
	}

	meals, err := h.service.Meals(ctx, day)
	if errors.Is(err, ErrNoMenu) {
		return h.reply(ctx, msg, fmt.Sprintf(msgNoMenu, day.Format("02.01.2006")))
	}
	if err != nil {
		return err
	}

	return h.reply(ctx, msg, Format(day, meals))
}

func (h *Handler) reply(ctx context.Context, msg *models.Message, text string) error {
	_, err := h.client.Reply(ctx, msg.Chat.ID, int64(msg.ID), text)
	return err
}
