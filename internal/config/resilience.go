package config

import (
	"time"

	"housing_filters/internal/retry"
)

type ResilienceConfig struct {
	SheetRead    retry.Config
	Notification retry.Config
}

// DefaultResilienceConfig covers the reads and side notifications of a run.
// Filter view submissions are never retried.
var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   30 * time.Second,
		Timeout:    15 * time.Second,
	},
	Notification: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    10 * time.Second,
	},
}
