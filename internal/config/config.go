// Package config loads worker configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/dvignesh/smsledger/internal/store"
)

// Source labels used by the per-source feature toggles.
const (
	SourceSMS          = "sms"
	SourceNotification = "notification"
	SourceBackup       = "backup"
)

// Config carries every tunable of the worker and ingest binaries.
type Config struct {
	SMSEnabled          bool   `env:"SMSLEDGER_SMS_ENABLED" envDefault:"true"`
	NotificationEnabled bool   `env:"SMSLEDGER_NOTIFICATION_ENABLED" envDefault:"true"`
	DefaultAccountID    string `env:"SMSLEDGER_DEFAULT_ACCOUNT_ID"`

	QueueSize int `env:"SMSLEDGER_QUEUE_SIZE" envDefault:"100"`
	Workers   int `env:"SMSLEDGER_WORKERS" envDefault:"4"`

	CleanupSchedule    string        `env:"SMSLEDGER_CLEANUP_SCHEDULE" envDefault:"@hourly"`
	DedupWindow        time.Duration `env:"SMSLEDGER_DEDUP_WINDOW" envDefault:"5m"`
	SyntacticCap       int           `env:"SMSLEDGER_SYNTACTIC_CAP" envDefault:"1000"`
	SyntacticRetention time.Duration `env:"SMSLEDGER_SYNTACTIC_RETENTION" envDefault:"24h"`
	ContentRetention   time.Duration `env:"SMSLEDGER_CONTENT_RETENTION" envDefault:"168h"`

	// BigQuery settings; empty project selects the in-memory stores.
	BigQueryProject string `env:"SMSLEDGER_BQ_PROJECT"`
	BigQueryDataset string `env:"SMSLEDGER_BQ_DATASET" envDefault:"smsledger"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// ApplySettings seeds a settings store with the configured toggles and
// default account.
func (c *Config) ApplySettings(ctx context.Context, settings store.SettingsStore) error {
	if err := settings.SetSourceEnabled(ctx, SourceSMS, c.SMSEnabled); err != nil {
		return fmt.Errorf("config: apply sms toggle: %w", err)
	}
	if err := settings.SetSourceEnabled(ctx, SourceNotification, c.NotificationEnabled); err != nil {
		return fmt.Errorf("config: apply notification toggle: %w", err)
	}
	if c.DefaultAccountID != "" {
		if err := settings.SetDefaultAccountID(ctx, c.DefaultAccountID); err != nil {
			return fmt.Errorf("config: apply default account: %w", err)
		}
	}
	return nil
}
