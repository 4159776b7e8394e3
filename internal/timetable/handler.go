package timetable

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/telegram"
)

const (
	msgHelp = "ℹ️ Verwendung:\n" +
		"/timetable today: Stundenplan für heute\n" +
		"/timetable tomorrow: Stundenplan für morgen\n" +
		"/timetable: die nächsten 7 Tage\n" +
		"/timetable <n>: die nächsten n Tage (max. 30)"
	msgInvalidArgument = "❌ Ungültiges Argument: %s. Erlaubt sind today, tomorrow oder eine Zahl (1-30)."
	msgOutOfRange      = "❌ Bitte gib eine Zahl zwischen 1 und 30 ein."
	msgUnauthorized    = "❌ Leere Antwort vom Server. Zugangsdaten für Campus Dual prüfen."
	msgFetchFailed     = "❌ Fehler beim Abrufen des Stundenplans."
)

// Handler handles /timetable
type Handler struct {
	service *Service
	client  telegram.Client
}

// NewHandler creates a new timetable handler
func NewHandler(service *Service, client telegram.Client) *Handler {
	return &Handler{service: service, client: client}
}

func (h *Handler) Command() string { return "timetable" }

func (h *Handler) Description() string {
	return "Stundenplan anzeigen [today|tomorrow|n]"
}

func (h *Handler) Handle(ctx context.Context, msg *models.Message) error {
	arg := bot.Args(msg.Text)
	if arg == "?" {
		return h.reply(ctx, msg, msgHelp)
	}

	days, err := ParseDays(arg)
	switch {
	case errors.Is(err, ErrDaysOutOfRange):
		return h.reply(ctx, msg, msgOutOfRange)
	case err != nil:
		return h.reply(ctx, msg, fmt.Sprintf(msgInvalidArgument, arg))
	}

	plan, err := h.service.Plan(ctx, days)
	if errors.Is(err, ErrUnauthorized) {
		return errors.Join(err, h.reply(ctx, msg, msgUnauthorized))
	}
	if err != nil {
		return errors.Join(err, h.reply(ctx, msg, msgFetchFailed))
	}

	for _, chunk := range telegram.SplitText(plan, telegram.MaxMessageLength) {
		if err := h.reply(ctx, msg, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) reply(ctx context.Context, msg *models.Message, text string) error {
	_, err := h.client.Reply(ctx, msg.Chat.ID, int64(msg.ID), text)
	return err
}
