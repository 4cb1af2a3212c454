package crawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/deadlinks"
	"github.com/fwojciec/deadlinks/crawl"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := crawl.DefaultConfig()

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.MaxDelay)
	assert.Equal(t, time.Second, cfg.BackoffUnit)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Zero(t, cfg.MaxInFlight)
	assert.Zero(t, cfg.RequestsPerSecond)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*crawl.Config)
	}{
		{"zero attempts", func(c *crawl.Config) { c.MaxAttempts = 0 }},
		{"zero workers", func(c *crawl.Config) { c.Workers = 0 }},
		{"negative depth", func(c *crawl.Config) { c.MaxDepth = -1 }},
		{"negative timeout", func(c *crawl.Config) { c.Timeout = -time.Second }},
		{"negative min delay", func(c *crawl.Config) { c.MinDelay = -time.Second }},
		{"max delay below min delay", func(c *crawl.Config) { c.MinDelay, c.MaxDelay = 2*time.Second, time.Second }},
		{"negative backoff", func(c *crawl.Config) { c.BackoffUnit = -time.Second }},
		{"negative max in-flight", func(c *crawl.Config) { c.MaxInFlight = -1 }},
		{"negative rate", func(c *crawl.Config) { c.RequestsPerSecond = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := crawl.DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()

			assert.Error(t, err)
			assert.Equal(t, deadlinks.EINVALID, deadlinks.ErrorCode(err))
		})
	}

	t.Run("depth zero is valid", func(t *testing.T) {
		t.Parallel()

		cfg := crawl.DefaultConfig()
		cfg.MaxDepth = 0

		assert.NoError(t, cfg.Validate())
	})
}
