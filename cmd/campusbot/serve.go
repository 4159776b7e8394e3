package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	campusbot "github.com/graffic/campusbot/internal/bot"
	"github.com/graffic/campusbot/internal/bot/middleware"
	"github.com/graffic/campusbot/internal/cache"
	"github.com/graffic/campusbot/internal/mensa"
	"github.com/graffic/campusbot/internal/observability"
	"github.com/graffic/campusbot/internal/quotes"
	"github.com/graffic/campusbot/internal/reactions"
	"github.com/graffic/campusbot/internal/scheduler"
	"github.com/graffic/campusbot/internal/storage"
	"github.com/graffic/campusbot/internal/telegram"
	"github.com/graffic/campusbot/internal/timetable"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var flagSkipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), flagSkipMigrations)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagSkipMigrations, "skip-migrations", false, "do not apply migrations on start")
}

func runServe(parent context.Context, skipMigrations bool) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting campusbot", "environment", cfg.Environment)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := storage.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrations {
		if err := migrate(ctx, db); err != nil {
			return err
		}
	}

	cacheService := cache.NewService(db.DB)
	dispatcher := campusbot.NewDispatcher(logger)

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.RequestLog(logger),
			middleware.ChatFilter(cfg.AllowedChatIDs, cfg.AutoLeaveUnauthorized, logger),
			cache.Middleware(cacheService, logger),
		),
		bot.WithDefaultHandler(dispatcher.Handle),
		// message_reaction is only delivered when requested explicitly
		bot.WithAllowedUpdates(bot.AllowedUpdates{"message", "edited_message", "message_reaction", "my_chat_member"}),
	}
	if cfg.Telegram.Debug {
		opts = append(opts, bot.WithDebug())
	}

	b, err := bot.New(cfg.Telegram.Token, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	client := telegram.NewBotClient(b)
	registry := campusbot.NewRegistry(logger)
	jobs := scheduler.New(logger)

	jobs.Add(scheduler.Every("cache_clean", cfg.Cache.CleanInterval, true,
		cache.NewCleaner(cacheService, cfg.Cache.KeepDuration, logger).Run))

	registerQuotes(registry, client, db, cacheService)

	if cfg.Reactions.Enabled {
		registerReactions(registry, dispatcher, client, db, cacheService)
	}

	if cfg.Mensa.Enabled {
		if err := registerMensa(registry, jobs, client, loc); err != nil {
			return err
		}
	}

	if cfg.Timetable.Enabled {
		if err := registerTimetable(registry, jobs, client, loc); err != nil {
			return err
		}
	}

	registry.Install(b)

	me, err := b.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach Telegram: %w", err)
	}
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: registry.BotCommands()}); err != nil {
		logger.Warn("failed to set command menu", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting bot polling", "username", me.Username, "commands", registry.List())
		b.Start(ctx)
		return ctx.Err()
	})

	g.Go(func() error {
		return jobs.Run(ctx)
	})

	g.Go(func() error {
		return observability.NewServer(cfg.Metrics.Addr, db, logger).Start(ctx)
	})

	logger.Info("all components started, waiting for shutdown signal")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("component error: %w", err)
	}

	logger.Info("graceful shutdown completed")
	return nil
}

func registerQuotes(registry *campusbot.Registry, client telegram.Client, db *storage.DB, cacheService *cache.Service) {
	store := quotes.NewStore(db.DB)
	publisher := quotes.NewPublisher(client, store, quotes.NewRenderer(), cfg.Quotes.ChatID, logger)
	searcher := quotes.NewSearcher(store, quotes.Weights{
		Text: cfg.Quotes.TextWeight,
		User: cfg.Quotes.UserWeight,
	}, cfg.Quotes.MatchThreshold)
	collector := quotes.NewCollector(cfg.Quotes.CollectTTL, cfg.Quotes.CollectCapacity)
	builder := quotes.NewBuilder(cacheService, cfg.Quotes.MaxChainDepth)

	registry.Register(
		quotes.NewAddQuoteHandler(client, builder, publisher),
		quotes.NewCollectHandler(client, collector),
		quotes.NewPostQuoteHandler(client, collector, publisher),
		quotes.NewClearQuoteHandler(client, collector),
		quotes.NewCustomQuoteHandler(client, publisher),
		quotes.NewRQuoteHandler(client, searcher, publisher),
		quotes.NewSearchQuoteHandler(client, searcher, publisher),
	)
}

func registerReactions(registry *campusbot.Registry, dispatcher *campusbot.Dispatcher, client telegram.Client, db *storage.DB, cacheService *cache.Service) {
	rc := cfg.Reactions
	store := reactions.NewStore(db.DB)
	matcher := reactions.NewMatcher(store, rc.MinCount, rc.SimilarityThreshold)

	dispatcher.OnReaction(reactions.NewLearner(store, cacheService, rc.MinMessageLength, logger))
	dispatcher.OnMessage(reactions.NewSuggester(matcher, client, reactions.SuggesterConfig{
		MaxSuggestions: rc.MaxSuggestions,
		MaxAttached:    rc.MaxAttached,
		MinLength:      rc.MinMessageLength,
	}, logger))
	registry.Register(reactions.NewStatsHandler(store, client))
}

func registerMensa(registry *campusbot.Registry, jobs *scheduler.Scheduler, client telegram.Client, loc *time.Location) error {
	mc := cfg.Mensa
	service := mensa.NewService(mensa.NewClient(mc.BaseURL, mc.CanteenID, mc.RequestsPerSecond), loc)
	registry.Register(mensa.NewHandler(service, client))

	if mc.ChatID == 0 {
		return nil
	}
	job, err := scheduler.Daily("mensa_post", mc.PostAt, loc,
		mensa.NewPoster(service, client, mc.ChatID, logger.With("component", "mensa")).Run)
	if err != nil {
		return err
	}
	jobs.Add(job)
	return nil
}

func registerTimetable(registry *campusbot.Registry, jobs *scheduler.Scheduler, client telegram.Client, loc *time.Location) error {
	tc := cfg.Timetable
	source := timetable.NewClient(timetable.ClientConfig{
		BaseURL:            tc.BaseURL,
		User:               tc.User,
		Hash:               tc.Hash,
		InsecureSkipVerify: tc.InsecureSkipVerify,
		Timeout:            tc.Timeout,
		CacheTTL:           tc.RefreshInterval,
	})
	service := timetable.NewService(source, loc)
	registry.Register(timetable.NewHandler(service, client))

	jobs.Add(scheduler.Every("timetable_refresh", tc.RefreshInterval, true, func(ctx context.Context) error {
		_, err := source.Refresh(ctx)
		return err
	}))

	if tc.ChatID == 0 {
		return nil
	}
	holidays, err := timetable.ParseHolidays(tc.Holidays)
	if err != nil {
		return err
	}
	job, err := scheduler.Daily("timetable_post", tc.PostAt, loc,
		timetable.NewPoster(service, client, tc.ChatID, holidays, logger.With("component", "timetable")).Run)
	if err != nil {
		return err
	}
	jobs.Add(job)
	return nil
}
