package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	// Embed tzdata for containers without zoneinfo.
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration values.
const EnvPrefix = "CAMPUSBOT_"

// sliceKeys lists the keys whose environment values are comma separated lists.
var sliceKeys = map[string]bool{
	"allowed_chat_ids":   true,
	"timetable.holidays": true,
}

// Config holds all application configuration
type Config struct {
	Environment           string          `koanf:"environment"`
	LogLevel              string          `koanf:"log_level"`
	Timezone              string          `koanf:"timezone"`
	Telegram              TelegramConfig  `koanf:"telegram"`
	Database              DatabaseConfig  `koanf:"database"`
	Cache                 CacheConfig     `koanf:"cache"`
	Quotes                QuotesConfig    `koanf:"quotes"`
	Reactions             ReactionsConfig `koanf:"reactions"`
	Mensa                 MensaConfig     `koanf:"mensa"`
	Timetable             TimetableConfig `koanf:"timetable"`
	Metrics               MetricsConfig   `koanf:"metrics"`
	AllowedChatIDs        []int64         `koanf:"allowed_chat_ids"`
	AutoLeaveUnauthorized bool            `koanf:"auto_leave_unauthorized"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	Token string `koanf:"token"`
	Debug bool   `koanf:"debug"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
	SSLMode  string `koanf:"sslmode"`
	Debug    bool   `koanf:"debug"`
}

// CacheConfig holds message cache configuration
type CacheConfig struct {
	CleanInterval time.Duration `koanf:"clean_interval"` // e.g., "10m"
	KeepDuration  time.Duration `koanf:"keep_duration"`  // e.g., "48h"
}

// QuotesConfig holds quote search and collection settings
type QuotesConfig struct {
	// ChatID is where new quotes are posted. Zero posts into the chat the command came from.
	ChatID          int64         `koanf:"chat_id"`
	TextWeight      float64       `koanf:"text_weight"`
	UserWeight      float64       `koanf:"user_weight"`
	MatchThreshold  int           `koanf:"match_threshold"`
	CollectTTL      time.Duration `koanf:"collect_ttl"`
	CollectCapacity int           `koanf:"collect_capacity"`
	MaxChainDepth   int           `koanf:"max_chain_depth"`
}

// ReactionsConfig holds reaction learning settings
type ReactionsConfig struct {
	Enabled             bool    `koanf:"enabled"`
	MinCount            int     `koanf:"min_count"`
	SimilarityThreshold float64 `koanf:"similarity_threshold"`
	MaxSuggestions      int     `koanf:"max_suggestions"`
	// MaxAttached caps successful attachments per message. Telegram lets bots set one reaction.
	MaxAttached      int `koanf:"max_attached"`
	MinMessageLength int `koanf:"min_message_length"`
}

// MensaConfig holds OpenMensa settings
type MensaConfig struct {
	Enabled           bool    `koanf:"enabled"`
	BaseURL           string  `koanf:"base_url"`
	CanteenID         int     `koanf:"canteen_id"`
	ChatID            int64   `koanf:"chat_id"`
	PostAt            string  `koanf:"post_at"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// TimetableConfig holds Campus Dual settings
type TimetableConfig struct {
	Enabled            bool          `koanf:"enabled"`
	BaseURL            string        `koanf:"base_url"`
	User               string        `koanf:"user"`
	Hash               string        `koanf:"hash"`
	InsecureSkipVerify bool          `koanf:"insecure_skip_verify"`
	ChatID             int64         `koanf:"chat_id"`
	PostAt             string        `koanf:"post_at"`
	RefreshInterval    time.Duration `koanf:"refresh_interval"`
	Timeout            time.Duration `koanf:"timeout"`
	Holidays           []string      `koanf:"holidays"` // YYYY-MM-DD
}

// MetricsConfig holds the health/metrics HTTP server settings
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate checks values that would otherwise fail at runtime.
func (c *Config) Validate() error {
	var errs []error

	q := c.Quotes
	if q.TextWeight < 0 || q.TextWeight > 1 || q.UserWeight < 0 || q.UserWeight > 1 {
		errs = append(errs, errors.New("quotes: weights must be within [0, 1]"))
	}
	if math.Abs(q.TextWeight+q.UserWeight-1) > 1e-9 {
		errs = append(errs, fmt.Errorf("quotes: text_weight + user_weight must be 1, got %v", q.TextWeight+q.UserWeight))
	}
	if q.MatchThreshold < 0 || q.MatchThreshold > 100 {
		errs = append(errs, fmt.Errorf("quotes: match_threshold %d out of range", q.MatchThreshold))
	}
	if q.CollectCapacity <= 0 {
		errs = append(errs, errors.New("quotes: collect_capacity must be positive"))
	}

	r := c.Reactions
	if r.SimilarityThreshold < 0 || r.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("reactions: similarity_threshold %v out of range", r.SimilarityThreshold))
	}
	if r.MinCount < 1 {
		errs = append(errs, errors.New("reactions: min_count must be at least 1"))
	}
	if r.MaxSuggestions < 1 || r.MaxAttached < 1 {
		errs = append(errs, errors.New("reactions: max_suggestions and max_attached must be at least 1"))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Load loads configuration from environment variables and config files
func Load(environment string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	k := koanf.New(".")
	// Load defaults first (lowest priority)
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	// Config file is optional
	configFile := fmt.Sprintf("config/%s.yaml", environment)
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		slog.Warn("could not load config file", "file", configFile, "error", err)
	}

	// Environment variables override config file values
	if err := k.Load(env.ProviderWithValue(EnvPrefix, "__", func(key string, value string) (string, interface{}) {
		finalKey := strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))

		if sliceKeys[strings.ReplaceAll(finalKey, "__", ".")] {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return finalKey, parts
		}

		return finalKey, value
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Environment = environment

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// defaultConfig returns the default configuration values
func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		Timezone: "Europe/Berlin",
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		Cache: CacheConfig{
			CleanInterval: 10 * time.Minute,
			KeepDuration:  48 * time.Hour,
		},
		Quotes: QuotesConfig{
			TextWeight:      0.7,
			UserWeight:      0.3,
			MatchThreshold:  50,
			CollectTTL:      10 * time.Minute,
			CollectCapacity: 99,
			MaxChainDepth:   5,
		},
		Reactions: ReactionsConfig{
			Enabled:             true,
			MinCount:            2,
			SimilarityThreshold: 0.6,
			MaxSuggestions:      3,
			MaxAttached:         1,
			MinMessageLength:    5,
		},
		Mensa: MensaConfig{
			BaseURL:           "https://openmensa.org/api/v2",
			CanteenID:         69,
			PostAt:            "06:00",
			RequestsPerSecond: 2,
		},
		Timetable: TimetableConfig{
			BaseURL:         "https://selfservice.campus-dual.de",
			PostAt:          "06:00",
			RefreshInterval: time.Hour,
			Timeout:         30 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}
