// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`
	TraceExporter  string `mapstructure:"TRACE_EXPORTER"`
	OTLPEndpoint   string `mapstructure:"OTLP_ENDPOINT"`

	Tuning Tuning `mapstructure:",squash"`
}

// Tuning carries the engagement product constants. The exact values are
// product tuning, not invariants, so they stay configurable.
type Tuning struct {
	TrendingLikeWeight    float64 `mapstructure:"TRENDING_LIKE_WEIGHT"`
	TrendingCommentWeight float64 `mapstructure:"TRENDING_COMMENT_WEIGHT"`
	TrendingRepostWeight  float64 `mapstructure:"TRENDING_REPOST_WEIGHT"`
	TrendingViewWeight    float64 `mapstructure:"TRENDING_VIEW_WEIGHT"`
	TrendingWindowDays    int     `mapstructure:"TRENDING_WINDOW_DAYS"`

	KarmaPost           int `mapstructure:"KARMA_POST"`
	KarmaComment        int `mapstructure:"KARMA_COMMENT"`
	KarmaLikeReceived   int `mapstructure:"KARMA_LIKE_RECEIVED"`
	KarmaRepostReceived int `mapstructure:"KARMA_REPOST_RECEIVED"`

	StoryTTLHours int `mapstructure:"STORY_TTL_HOURS"`
	FeedMaxLimit  int `mapstructure:"FEED_MAX_LIMIT"`
}

// StoryTTL returns the story time-to-live as a duration.
func (t Tuning) StoryTTL() time.Duration {
	return time.Duration(t.StoryTTLHours) * time.Hour
}

// TrendingWindow returns the trailing window considered by the trending feed.
func (t Tuning) TrendingWindow() time.Duration {
	return time.Duration(t.TrendingWindowDays) * 24 * time.Hour
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; environment variables and defaults
	// are enough to run.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config.%s.yml: %w", env, err)
			}
		}
	}

	viper.SetDefault("PORT", "8480")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "moltgram")
	viper.SetDefault("DB_PASSWORD", "moltgram")
	viper.SetDefault("DB_NAME", "moltgram")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("TRACE_EXPORTER", "none")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")

	// Engagement tuning, matching the historical product constants.
	viper.SetDefault("TRENDING_LIKE_WEIGHT", 3.0)
	viper.SetDefault("TRENDING_COMMENT_WEIGHT", 5.0)
	viper.SetDefault("TRENDING_REPOST_WEIGHT", 4.0)
	viper.SetDefault("TRENDING_VIEW_WEIGHT", 0.1)
	viper.SetDefault("TRENDING_WINDOW_DAYS", 7)
	viper.SetDefault("KARMA_POST", 5)
	viper.SetDefault("KARMA_COMMENT", 2)
	viper.SetDefault("KARMA_LIKE_RECEIVED", 1)
	viper.SetDefault("KARMA_REPOST_RECEIVED", 3)
	viper.SetDefault("STORY_TTL_HOURS", 24)
	viper.SetDefault("FEED_MAX_LIMIT", 50)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.Tuning.FeedMaxLimit <= 0 {
		return errors.New("FEED_MAX_LIMIT must be positive")
	}
	if c.Tuning.StoryTTLHours <= 0 {
		return errors.New("STORY_TTL_HOURS must be positive")
	}
	if c.Tuning.TrendingWindowDays <= 0 {
		return errors.New("TRENDING_WINDOW_DAYS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.DBPassword == "moltgram" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}

// DefaultTuning returns the tuning constants used when no configuration is loaded.
// Tests and the seeder rely on it.
func DefaultTuning() Tuning {
	return Tuning{
		TrendingLikeWeight:    3,
		TrendingCommentWeight: 5,
		TrendingRepostWeight:  4,
		TrendingViewWeight:    0.1,
		TrendingWindowDays:    7,
		KarmaPost:             5,
		KarmaComment:          2,
		KarmaLikeReceived:     1,
		KarmaRepostReceived:   3,
		StoryTTLHours:         24,
		FeedMaxLimit:          50,
	}
}
