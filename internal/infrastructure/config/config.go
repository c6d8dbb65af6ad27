package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs session cookies and locally minted tokens.
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL,      default=24h"`
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL, default=30m"`

	// CredentialKey seals persisted credentials. Falls back to SessionSecret.
	CredentialKey string `env:"CREDENTIAL_KEY"`

	DemoMode            bool `env:"DEMO_MODE,            default=false"`
	OfflineRegistration bool `env:"OFFLINE_REGISTRATION, default=false"`
	SearchMinChars      int  `env:"SEARCH_MIN_CHARS,     default=2"`

	Backend BackendConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	CLI     CLIConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:5000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`

	BreakerFailures    uint32        `env:"BREAKER_FAILURES,     default=3"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI             string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database        string        `env:"MONGO_DB,              default=hoarding_dashboard"`
	AuditRetention  time.Duration `env:"AUDIT_RETENTION,       default=720h"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,         default=4"`
	DisableAuditLog bool          `env:"AUDIT_DISABLED,        default=false"`
}

// RedisConfig locates the credential store. With no address the BFF keeps
// credentials in memory and they do not survive a restart.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type CLIConfig struct {
	CredentialsFile string `env:"CREDENTIALS_FILE"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.CredentialKey == "" {
		cfg.CredentialKey = cfg.SessionSecret
	}
	if cfg.CLI.CredentialsFile == "" {
		cfg.CLI.CredentialsFile = defaultCredentialsFile()
	}
	return &cfg, nil
}

// Validate checks the settings the BFF cannot run without.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "hoarding-dashboard", "credentials.yaml")
}
