// Package config provides configuration loading and management for the readiness server.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/media-readiness-server/internal/telemetry"
)

// EnvPrefix is the prefix for environment variables read by the server
const EnvPrefix = "READINESS"

const (
	// MediaServerTypeJellyfin fetches the library from a Jellyfin (or Emby compatible) server
	MediaServerTypeJellyfin = "jellyfin"

	// MediaServerTypeFile reads the library from a JSON export on the local filesystem
	MediaServerTypeFile = "file"
)

const (
	// StorageTypeFile keeps webhooks and dismissals in JSON files under a data directory
	StorageTypeFile = "file"

	// StorageTypeSQLite keeps webhooks and dismissals in an embedded SQLite database
	StorageTypeSQLite = "sqlite"

	// StorageTypeDatabase keeps webhooks and dismissals in PostgreSQL
	StorageTypeDatabase = "database"
)

// Defaults applied by the getters when a value is not configured.
const (
	DefaultSyncInterval          = 15 * time.Minute
	DefaultFetchTimeout          = 60 * time.Second
	DefaultDeliveryTimeout       = 10 * time.Second
	DefaultMaxConcurrentDelivery = 8
	DefaultShutdownGracePeriod   = 30 * time.Second
	DefaultThresholdAlmost       = 0.5
	DefaultDataDir               = "./data"
	DefaultSQLitePath            = "./data/readiness.db"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	MediaServer   MediaServerConfig    `yaml:"mediaServer"`
	SyncPolicy    *SyncPolicyConfig    `yaml:"syncPolicy,omitempty"`
	Readiness     *ReadinessConfig     `yaml:"readiness,omitempty"`
	Notifications *NotificationsConfig `yaml:"notifications,omitempty"`
	Storage       *StorageConfig       `yaml:"storage,omitempty"`
	Database      *DatabaseConfig      `yaml:"database,omitempty"`
	Shutdown      *ShutdownConfig      `yaml:"shutdown,omitempty"`
	Telemetry     *telemetry.Config    `yaml:"telemetry,omitempty"`
}

// MediaServerConfig describes where the library is fetched from
type MediaServerConfig struct {
	// Type is one of "jellyfin" or "file"
	Type string `yaml:"type"`

	Jellyfin *JellyfinConfig `yaml:"jellyfin,omitempty"`
	File     *FileConfig     `yaml:"file,omitempty"`

	// Timeout bounds a single library fetch (e.g. "60s")
	Timeout string `yaml:"timeout,omitempty"`
}

// JellyfinConfig defines the connection to a Jellyfin server
type JellyfinConfig struct {
	// URL is the base URL of the server, e.g. "http://jellyfin:8096"
	URL string `yaml:"url"`

	// APIKeyFile is the path to a file containing the API key.
	// When empty, READINESS_JELLYFIN_API_KEY is used.
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	// UserID scopes the query to a user's view of the library (optional)
	UserID string `yaml:"userId,omitempty"`
}

// FileConfig defines a library export on the local filesystem
type FileConfig struct {
	Path string `yaml:"path"`
}

// SyncPolicyConfig defines synchronization settings
type SyncPolicyConfig struct {
	Interval string `yaml:"interval"`
}

// ReadinessConfig configures the readiness rules
type ReadinessConfig struct {
	// ThresholdAlmost is the progress fraction at or above which a not-yet-ready item is almost-ready
	ThresholdAlmost *float64 `yaml:"thresholdAlmost,omitempty"`

	// AudioLanguages lists accepted audio languages (ISO 639-1 or 639-2, e.g. "en" or "eng")
	AudioLanguages []string `yaml:"audioLanguages,omitempty"`

	// SubtitleLanguages lists accepted subtitle languages
	SubtitleLanguages []string `yaml:"subtitleLanguages,omitempty"`
}

// NotificationsConfig configures webhook delivery
type NotificationsConfig struct {
	// Timeout bounds a single webhook delivery
	Timeout string `yaml:"timeout,omitempty"`

	// MaxConcurrent caps the number of deliveries in flight at once
	MaxConcurrent int `yaml:"maxConcurrent,omitempty"`

	// SeedOnFirstCycle suppresses notifications for the first evaluation after startup
	SeedOnFirstCycle *bool `yaml:"seedOnFirstCycle,omitempty"`
}

// StorageConfig selects the backend for webhooks and dismissals
type StorageConfig struct {
	Type   string               `yaml:"type,omitempty"`
	File   *FileStorageConfig   `yaml:"file,omitempty"`
	SQLite *SQLiteStorageConfig `yaml:"sqlite,omitempty"`
}

// FileStorageConfig configures the file backend
type FileStorageConfig struct {
	BaseDir string `yaml:"baseDir,omitempty"`
}

// SQLiteStorageConfig configures the SQLite backend
type SQLiteStorageConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ShutdownConfig bounds how long shutdown waits for an in-flight sync
type ShutdownConfig struct {
	GracePeriod string `yaml:"gracePeriod,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from READINESS_DATABASE_PASSWORD environment variable
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		data, err := os.ReadFile(filepath.Clean(d.PasswordFile))
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(EnvPrefix + "_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s_DATABASE_PASSWORD environment variable", EnvPrefix,
	)
}

// GetConnectionString builds a PostgreSQL connection string.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	), nil
}

// GetAPIKey returns the Jellyfin API key from APIKeyFile or READINESS_JELLYFIN_API_KEY
func (j *JellyfinConfig) GetAPIKey() (string, error) {
	if j.APIKeyFile != "" {
		data, err := os.ReadFile(filepath.Clean(j.APIKeyFile))
		if err != nil {
			return "", fmt.Errorf("failed to read api key from file %s: %w", j.APIKeyFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if key := os.Getenv(EnvPrefix + "_JELLYFIN_API_KEY"); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("no jellyfin api key configured: set apiKeyFile or %s_JELLYFIN_API_KEY", EnvPrefix)
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetSyncInterval returns the configured sync interval or DefaultSyncInterval
func (c *Config) GetSyncInterval() time.Duration {
	if c.SyncPolicy == nil {
		return DefaultSyncInterval
	}
	return parseDurationOr(c.SyncPolicy.Interval, DefaultSyncInterval, "syncPolicy.interval")
}

// GetFetchTimeout returns the timeout applied to one library fetch
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOr(c.MediaServer.Timeout, DefaultFetchTimeout, "mediaServer.timeout")
}

// GetDeliveryTimeout returns the timeout applied to one webhook delivery
func (c *Config) GetDeliveryTimeout() time.Duration {
	if c.Notifications == nil {
		return DefaultDeliveryTimeout
	}
	return parseDurationOr(c.Notifications.Timeout, DefaultDeliveryTimeout, "notifications.timeout")
}

// GetMaxConcurrentDeliveries returns the delivery concurrency cap
func (c *Config) GetMaxConcurrentDeliveries() int {
	if c.Notifications == nil || c.Notifications.MaxConcurrent <= 0 {
		return DefaultMaxConcurrentDelivery
	}
	return c.Notifications.MaxConcurrent
}

// GetSeedOnFirstCycle reports whether the first evaluation only seeds verdict history
func (c *Config) GetSeedOnFirstCycle() bool {
	if c.Notifications == nil || c.Notifications.SeedOnFirstCycle == nil {
		return true
	}
	return *c.Notifications.SeedOnFirstCycle
}

// GetThresholdAlmost returns the almost-ready threshold
func (c *Config) GetThresholdAlmost() float64 {
	if c.Readiness == nil || c.Readiness.ThresholdAlmost == nil {
		return DefaultThresholdAlmost
	}
	return *c.Readiness.ThresholdAlmost
}

// GetAudioLanguages returns the accepted audio languages
func (c *Config) GetAudioLanguages() []string {
	if c.Readiness == nil {
		return nil
	}
	return c.Readiness.AudioLanguages
}

// GetSubtitleLanguages returns the accepted subtitle languages
func (c *Config) GetSubtitleLanguages() []string {
	if c.Readiness == nil {
		return nil
	}
	return c.Readiness.SubtitleLanguages
}

// GetShutdownGracePeriod returns how long shutdown waits for an in-flight sync
func (c *Config) GetShutdownGracePeriod() time.Duration {
	if c.Shutdown == nil {
		return DefaultShutdownGracePeriod
	}
	return parseDurationOr(c.Shutdown.GracePeriod, DefaultShutdownGracePeriod, "shutdown.gracePeriod")
}

// GetStorageType returns the storage backend, defaulting to file storage
func (c *Config) GetStorageType() string {
	if c.Storage == nil || c.Storage.Type == "" {
		return StorageTypeFile
	}
	return c.Storage.Type
}

// GetFileStorageBaseDir returns the data directory of the file backend
func (c *Config) GetFileStorageBaseDir() string {
	if c.Storage == nil || c.Storage.File == nil || c.Storage.File.BaseDir == "" {
		return DefaultDataDir
	}
	return c.Storage.File.BaseDir
}

// GetSQLitePath returns the SQLite database path
func (c *Config) GetSQLitePath() string {
	if c.Storage == nil || c.Storage.SQLite == nil || c.Storage.SQLite.Path == "" {
		return DefaultSQLitePath
	}
	return c.Storage.SQLite.Path
}

// GetStateDir returns the directory holding the persisted sync state.
// It sits next to the configured backend's data; the database backend uses DefaultDataDir.
func (c *Config) GetStateDir() string {
	switch c.GetStorageType() {
	case StorageTypeSQLite:
		return filepath.Dir(c.GetSQLitePath())
	case StorageTypeDatabase:
		return DefaultDataDir
	default:
		return c.GetFileStorageBaseDir()
	}
}

func parseDurationOr(value string, fallback time.Duration, field string) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default",
			"field", field,
			"value", value,
			"default", fallback)
		return fallback
	}
	return d
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateMediaServer(&c.MediaServer); err != nil {
		return err
	}

	if c.SyncPolicy != nil && c.SyncPolicy.Interval != "" {
		if err := validateDuration(c.SyncPolicy.Interval, "syncPolicy.interval"); err != nil {
			return err
		}
	}

	if err := validateReadiness(c.Readiness); err != nil {
		return err
	}

	if c.Notifications != nil {
		if c.Notifications.Timeout != "" {
			if err := validateDuration(c.Notifications.Timeout, "notifications.timeout"); err != nil {
				return err
			}
		}
		if c.Notifications.MaxConcurrent < 0 {
			return fmt.Errorf("notifications.maxConcurrent must not be negative")
		}
	}

	if c.Shutdown != nil && c.Shutdown.GracePeriod != "" {
		if err := validateDuration(c.Shutdown.GracePeriod, "shutdown.gracePeriod"); err != nil {
			return err
		}
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

func validateMediaServer(ms *MediaServerConfig) error {
	switch ms.Type {
	case MediaServerTypeJellyfin:
		if ms.Jellyfin == nil || ms.Jellyfin.URL == "" {
			return fmt.Errorf("mediaServer.jellyfin.url is required for type %q", ms.Type)
		}
		u, err := url.Parse(ms.Jellyfin.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("mediaServer.jellyfin.url must be an absolute URL: %s", ms.Jellyfin.URL)
		}
	case MediaServerTypeFile:
		if ms.File == nil || ms.File.Path == "" {
			return fmt.Errorf("mediaServer.file.path is required for type %q", ms.Type)
		}
	case "":
		return fmt.Errorf("mediaServer.type is required")
	default:
		return fmt.Errorf("mediaServer.type must be one of %q or %q, got %q",
			MediaServerTypeJellyfin, MediaServerTypeFile, ms.Type)
	}

	if ms.Timeout != "" {
		return validateDuration(ms.Timeout, "mediaServer.timeout")
	}
	return nil
}

func validateReadiness(r *ReadinessConfig) error {
	if r == nil {
		return nil
	}
	if r.ThresholdAlmost != nil && !(*r.ThresholdAlmost >= 0 && *r.ThresholdAlmost <= 1) {
		return fmt.Errorf("readiness.thresholdAlmost must be between 0.0 and 1.0, got %f", *r.ThresholdAlmost)
	}
	for i, lang := range r.AudioLanguages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("readiness.audioLanguages[%d] must not be empty", i)
		}
	}
	for i, lang := range r.SubtitleLanguages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("readiness.subtitleLanguages[%d] must not be empty", i)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.GetStorageType() {
	case StorageTypeFile, StorageTypeSQLite:
		return nil
	case StorageTypeDatabase:
		if c.Database == nil {
			return fmt.Errorf("database configuration is required for storage type %q", StorageTypeDatabase)
		}
		if c.Database.Host == "" || c.Database.Port == 0 || c.Database.User == "" || c.Database.Database == "" {
			return fmt.Errorf("database.host, database.port, database.user and database.database are required")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage type: %s", c.GetStorageType())
	}
}

func validateDuration(value, field string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s must be a valid duration (e.g., '30s', '15m'): %w", field, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return nil
}
