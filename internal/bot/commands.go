package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/graffic/campusbot/internal/bot/middleware"
	"github.com/graffic/campusbot/internal/observability"
)

// Command is a slash command the bot answers
type Command interface {
	// Command returns the command name without the leading slash
	Command() string
	// Description is shown in the Telegram command menu
	Description() string
	// Handle runs the command for the given message
	Handle(ctx context.Context, msg *models.Message) error
}

// Registry holds all registered commands
type Registry struct {
	commands map[string]Command
	logger   *slog.Logger
}

// NewRegistry creates a new command registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		commands: make(map[string]Command),
		logger:   logger,
	}
}

// Register adds commands to the registry. Registering a name twice panics.
func (r *Registry) Register(cmds ...Command) {
	for _, cmd := range cmds {
		name := strings.ToLower(cmd.Command())
		if _, exists := r.commands[name]; exists {
			panic(fmt.Sprintf("command %q registered twice", name))
		}
		r.commands[name] = cmd
	}
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// List returns all registered command names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BotCommands returns the command menu entries for SetMyCommands
func (r *Registry) BotCommands() []models.BotCommand {
	names := r.List()
	out := make([]models.BotCommand, 0, len(names))
	for _, name := range names {
		out = append(out, models.BotCommand{
			Command:     name,
			Description: r.commands[name].Description(),
		})
	}
	return out
}

// Install registers a text handler for every command on b
func (r *Registry) Install(b *bot.Bot) {
	for _, name := range r.List() {
		b.RegisterHandlerRegexp(bot.HandlerTypeMessageText, CommandPattern(name), r.Handler(r.commands[name]))
	}
}

// Handler adapts a command to a go-telegram handler. Errors are logged with
// the request logger and counted, never returned to Telegram.
func (r *Registry) Handler(cmd Command) bot.HandlerFunc {
	return func(ctx context.Context, _ *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}

		logger := middleware.Logger(ctx, r.logger)
		if err := cmd.Handle(ctx, update.Message); err != nil {
			observability.CommandsHandled.WithLabelValues(cmd.Command(), "error").Inc()
			logger.Error("command failed", "command", cmd.Command(), "error", err)
			return
		}
		observability.CommandsHandled.WithLabelValues(cmd.Command(), "ok").Inc()
		logger.Debug("command handled", "command", cmd.Command())
	}
}

// CommandPattern matches "/name", "/name@botname" and "/name args".
func CommandPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^/` + regexp.QuoteMeta(name) + `(@\w+)?(\s|$)`)
}

// Args returns the text following the command token, trimmed.
func Args(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx:])
}
