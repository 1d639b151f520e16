package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Port)
	assert.Equal(t, 50, cfg.Tuning.FeedMaxLimit)
	assert.Equal(t, 24, cfg.Tuning.StoryTTLHours)
	assert.Equal(t, 7, cfg.Tuning.TrendingWindowDays)
	assert.Equal(t, 5, cfg.Tuning.KarmaPost)
	assert.InDelta(t, 0.1, cfg.Tuning.TrendingViewWeight, 1e-9)
}

func TestValidateRejectsMissingPort(t *testing.T) {
	cfg := &Config{Tuning: DefaultTuning()}
	assert.Error(t, cfg.Validate())

	cfg.Port = "8480"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadTuning(t *testing.T) {
	cfg := &Config{Port: "8480", Tuning: DefaultTuning()}
	cfg.Tuning.FeedMaxLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = &Config{Port: "8480", Tuning: DefaultTuning()}
	cfg.Tuning.StoryTTLHours = -1
	assert.Error(t, cfg.Validate())
}

func TestTuningDurations(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, "24h0m0s", tuning.StoryTTL().String())
	assert.Equal(t, "168h0m0s", tuning.TrendingWindow().String())
}
