package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"vighnaharta-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Storage   StorageConfig   `yaml:"storage"`
	Admin     AdminConfig     `yaml:"admin"`
	Log       LogConfig       `yaml:"log"`
	Notify    NotifyConfig    `yaml:"notify"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	Festival  FestivalConfig  `yaml:"festival"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host" env:"SERVER_HOST"`
	Port     int    `yaml:"port" env:"SERVER_PORT"`
	GRPCPort int    `yaml:"grpc_port" env:"GRPC_PORT"`
}

// StoreConfig selects the participant and message backend.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER"` // "bolt", "sqlite" or "postgres"
	Path   string `yaml:"path" env:"STORE_PATH"`     // File for bolt and sqlite
	DSN    string `yaml:"dsn" env:"STORE_DSN"`       // Connection string for postgres
}

// StorageConfig contains pass image storage settings
type StorageConfig struct {
	Dir           string   `yaml:"dir" env:"PASS_DIR"`
	PublicPrefix  string   `yaml:"public_prefix" env:"PASS_PUBLIC_PREFIX"`
	MaxFileSizeMB int64    `yaml:"max_file_size_mb" env:"PASS_MAX_FILE_SIZE_MB"`
	AllowedTypes  []string `yaml:"allowed_types"`
	OrphanGrace   string   `yaml:"orphan_grace" env:"PASS_ORPHAN_GRACE"`
}

// AdminConfig holds the moderator passphrase hash and token settings.
type AdminConfig struct {
	PassphraseHash     string `yaml:"passphrase_hash" env:"ADMIN_PASSPHRASE_HASH"`
	JWTSecret          string `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
	TokenExpiryMinutes int    `yaml:"token_expiry_minutes" env:"ADMIN_TOKEN_EXPIRY_MINUTES"`
	Email              string `yaml:"email" env:"ADMIN_EMAIL"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// NotifyConfig selects the outbound email provider.
type NotifyConfig struct {
	Provider       string     `yaml:"provider" env:"NOTIFY_PROVIDER"` // "none", "smtp" or "sendgrid"
	From           string     `yaml:"from" env:"NOTIFY_FROM"`
	SMTP           SMTPConfig `yaml:"smtp"`
	SendGridAPIKey string     `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	Enabled           bool   `yaml:"enabled" env:"SCHEDULER_ENABLED"`
	SweepOrphanPass   string `yaml:"sweep_orphan_passes"`
	SendPendingDigest string `yaml:"send_pending_digest"`
}

// GalleryConfig contains listing settings
type GalleryConfig struct {
	PageSize        int `yaml:"page_size"`
	MessagePageSize int `yaml:"message_page_size"`
}

// FestivalConfig carries display values and the organizer directory.
type FestivalConfig struct {
	Title      string             `yaml:"title" env:"FESTIVAL_TITLE"`
	Organizers []domain.Organizer `yaml:"organizers"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and defaults, then
// validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "bolt"
	}
	if c.Store.Path == "" {
		switch c.Store.Driver {
		case "sqlite":
			c.Store.Path = "data/vighnaharta.sqlite"
		default:
			c.Store.Path = "data/vighnaharta.db"
		}
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "public/passes"
	}
	if c.Storage.PublicPrefix == "" {
		c.Storage.PublicPrefix = "/passes"
	}
	if c.Storage.MaxFileSizeMB == 0 {
		c.Storage.MaxFileSizeMB = 10
	}
	if c.Storage.OrphanGrace == "" {
		c.Storage.OrphanGrace = "24h"
	}
	if c.Admin.TokenExpiryMinutes == 0 {
		c.Admin.TokenExpiryMinutes = 720
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Notify.Provider == "" {
		c.Notify.Provider = "none"
	}
	if c.Notify.SMTP.Port == 0 {
		c.Notify.SMTP.Port = 587
	}
	if c.Scheduler.SweepOrphanPass == "" {
		c.Scheduler.SweepOrphanPass = "0 0 3 * * *" // 3 AM daily
	}
	if c.Scheduler.SendPendingDigest == "" {
		c.Scheduler.SendPendingDigest = "0 0 9 * * *" // 9 AM daily
	}
	if c.Gallery.PageSize == 0 {
		c.Gallery.PageSize = 10
	}
	if c.Gallery.MessagePageSize == 0 {
		c.Gallery.MessagePageSize = 4
	}
	if c.Festival.Title == "" {
		c.Festival.Title = "Vighnaharta Ganeshotsav"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.Server.GRPCPort)
	}

	switch c.Store.Driver {
	case "bolt", "sqlite":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	if c.Admin.PassphraseHash == "" {
		return fmt.Errorf("admin passphrase hash is required")
	}
	if len(c.Admin.JWTSecret) < 32 {
		return fmt.Errorf("admin JWT secret must be at least 32 characters")
	}

	if _, err := time.ParseDuration(c.Storage.OrphanGrace); err != nil {
		return fmt.Errorf("invalid orphan grace %q: %w", c.Storage.OrphanGrace, err)
	}

	switch c.Notify.Provider {
	case "none":
	case "smtp":
		if c.Notify.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required")
		}
		if c.Notify.From == "" {
			return fmt.Errorf("notify from address is required")
		}
	case "sendgrid":
		if c.Notify.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required")
		}
		if c.Notify.From == "" {
			return fmt.Errorf("notify from address is required")
		}
	default:
		return fmt.Errorf("unknown notify provider: %q", c.Notify.Provider)
	}

	if c.Gallery.PageSize < 1 || c.Gallery.MessagePageSize < 1 {
		return fmt.Errorf("page sizes must be positive")
	}

	for i, o := range c.Festival.Organizers {
		if strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("organizer %d has no name", i)
		}
	}
	return nil
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health service address, or "" when disabled.
func (c *Config) GetGRPCAddress() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// OrphanGrace returns the parsed grace period for the orphan sweep.
func (c *Config) OrphanGrace() time.Duration {
	d, _ := time.ParseDuration(c.Storage.OrphanGrace)
	return d
}

// MaxPassBytes returns the pass image size limit in bytes.
func (c *Config) MaxPassBytes() int64 {
	return c.Storage.MaxFileSizeMB << 20
}

// TokenExpiry returns the admin token lifetime.
func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.Admin.TokenExpiryMinutes) * time.Minute
}
