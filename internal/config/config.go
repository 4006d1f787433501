package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"CHOREBOARD_PORT,           default=8080"`
	DBPath        string `env:"CHOREBOARD_DB_PATH,        default=choreboard.db"`
	LogLevel      string `env:"CHOREBOARD_LOG_LEVEL,      default=info"`
	LogFormat     string `env:"CHOREBOARD_LOG_FORMAT,     default=text"`
	SecureCookies bool   `env:"CHOREBOARD_SECURE_COOKIES, default=false"`

	Ollama OllamaConfig
	Backup BackupConfig
	Push   PushConfig
}

type OllamaConfig struct {
	Host    string        `env:"CHOREBOARD_OLLAMA_HOST,    default=http://localhost:11434"`
	Model   string        `env:"CHOREBOARD_OLLAMA_MODEL,   default=llama3.2"`
	Timeout time.Duration `env:"CHOREBOARD_OLLAMA_TIMEOUT, default=2m"`
}

type BackupConfig struct {
	Dir string `env:"CHOREBOARD_BACKUP_DIR, default=backups"`

	// Schedule is a five-field cron spec. Empty disables scheduled backups.
	Schedule   string `env:"CHOREBOARD_BACKUP_SCHEDULE"`
	Passphrase string `env:"CHOREBOARD_BACKUP_PASSPHRASE"`
	Retain     int    `env:"CHOREBOARD_BACKUP_RETAIN, default=7"`

	S3 S3Config
}

type S3Config struct {
	Endpoint  string `env:"CHOREBOARD_S3_ENDPOINT"`
	Bucket    string `env:"CHOREBOARD_S3_BUCKET"`
	Region    string `env:"CHOREBOARD_S3_REGION, default=us-east-1"`
	AccessKey string `env:"CHOREBOARD_S3_ACCESS_KEY_ID"`
	SecretKey string `env:"CHOREBOARD_S3_SECRET_ACCESS_KEY"`
	Prefix    string `env:"CHOREBOARD_S3_PREFIX"`
}

// PushConfig enables daily web push reminders when both VAPID keys are set.
// Generate a pair with "choreboard vapid-keys".
type PushConfig struct {
	VAPIDPublicKey  string `env:"CHOREBOARD_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"CHOREBOARD_VAPID_PRIVATE_KEY"`
	Subscriber      string `env:"CHOREBOARD_VAPID_SUBSCRIBER, default=mailto:choreboard@localhost"`
	RemindHour      int    `env:"CHOREBOARD_REMIND_HOUR, default=8"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Ollama.Timeout <= 0 {
		return nil, fmt.Errorf("load config: CHOREBOARD_OLLAMA_TIMEOUT must be positive, got %s", cfg.Ollama.Timeout)
	}
	if cfg.Backup.Retain < 0 {
		return nil, fmt.Errorf("load config: CHOREBOARD_BACKUP_RETAIN must not be negative, got %d", cfg.Backup.Retain)
	}
	if cfg.Push.RemindHour < 0 || cfg.Push.RemindHour > 23 {
		return nil, fmt.Errorf("load config: CHOREBOARD_REMIND_HOUR must be 0-23, got %d", cfg.Push.RemindHour)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
