package scheduler

import (
	"time"
)

// Config controls how often the scheduler wakes up and sweeps.
type Config struct {
	RunInterval    time.Duration
	SweepTimeout   time.Duration
	LockTTL        time.Duration
	InboxScanLimit int
}

func DefaultConfig() Config {
	return Config{
		RunInterval:    time.Hour,
		SweepTimeout:   2 * time.Minute,
		LockTTL:        10 * time.Minute,
		InboxScanLimit: 500,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.SweepTimeout <= 0 {
		c.SweepTimeout = defaults.SweepTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	if c.InboxScanLimit <= 0 {
		c.InboxScanLimit = defaults.InboxScanLimit
	}
	return c
}
