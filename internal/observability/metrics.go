package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuoteSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusbot_quote_searches_total",
		Help: "Quote searches by outcome",
	}, []string{"outcome"})

	QuoteSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campusbot_quote_search_duration_seconds",
		Help:    "Time spent scoring the quote corpus",
		Buckets: prometheus.DefBuckets,
	})

	QuotesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusbot_quotes_created_total",
		Help: "Stored quotes by origin",
	}, []string{"origin"})

	ReactionsLearned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusbot_reactions_learned_total",
		Help: "Observed reactions recorded as patterns",
	})

	ReactionSuggestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusbot_reaction_suggestions_total",
		Help: "Suggested reaction attachments by result",
	}, []string{"result"})

	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusbot_commands_total",
		Help: "Handled bot commands by status",
	}, []string{"command", "status"})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusbot_job_runs_total",
		Help: "Scheduled job runs by status",
	}, []string{"job", "status"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusbot_upstream_request_duration_seconds",
		Help:    "Duration of requests to external data sources",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})
)
