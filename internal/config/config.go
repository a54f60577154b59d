package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultPort            = "8080"
	DefaultTimeout         = 60 * time.Second
	DefaultMaxRetries      = 2
	DefaultHistoryLimit    = 50
	DefaultBucketName      = "pagespeed-reports"
	DefaultCacheMaxAge     = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

type Config struct {
	Port string

	PageSpeedEndpoint   string
	PageSpeedAPIKey     string
	PageSpeedTimeout    time.Duration
	PageSpeedMaxRetries uint64

	HistoryLimit int

	ArchiveEnabled  bool
	CacheDir        string
	CacheMaxAge     time.Duration
	CleanupInterval time.Duration

	S3ServiceURL string
	S3AccessKey  string
	S3SecretKey  string
	S3BucketName string

	SentryDSN    string
	Environment  string
	OTLPEndpoint string
}

// New returns a viper instance with defaults and environment binding set up.
// Keys use dashes; PAGESPEED_API_KEY maps to "pagespeed-api-key".
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("pagespeed-api-url", "")
	v.SetDefault("pagespeed-api-key", "")
	v.SetDefault("pagespeed-timeout", DefaultTimeout)
	v.SetDefault("pagespeed-max-retries", DefaultMaxRetries)
	v.SetDefault("history-limit", DefaultHistoryLimit)
	v.SetDefault("archive-enabled", false)
	v.SetDefault("archive-cache-dir", filepath.Join(os.TempDir(), "pagespeed-cache"))
	v.SetDefault("archive-cache-max-age", DefaultCacheMaxAge)
	v.SetDefault("archive-cleanup-interval", DefaultCleanupInterval)
	v.SetDefault("s3-service-url", "")
	v.SetDefault("s3-access-key", "")
	v.SetDefault("s3-secret-key", "")
	v.SetDefault("s3-bucket-name", DefaultBucketName)
	v.SetDefault("sentry-dsn", "")
	v.SetDefault("sentry-environment", "production")
	v.SetDefault("otel-exporter-otlp-endpoint", "")

	return v
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return FromViper(New())
}

// FromViper validates and converts the values held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString("port"),
		PageSpeedEndpoint: v.GetString("pagespeed-api-url"),
		PageSpeedAPIKey:   v.GetString("pagespeed-api-key"),
		PageSpeedTimeout:  v.GetDuration("pagespeed-timeout"),
		HistoryLimit:      v.GetInt("history-limit"),
		ArchiveEnabled:    v.GetBool("archive-enabled"),
		CacheDir:          v.GetString("archive-cache-dir"),
		CacheMaxAge:       v.GetDuration("archive-cache-max-age"),
		CleanupInterval:   v.GetDuration("archive-cleanup-interval"),
		S3ServiceURL:      v.GetString("s3-service-url"),
		S3AccessKey:       v.GetString("s3-access-key"),
		S3SecretKey:       v.GetString("s3-secret-key"),
		S3BucketName:      v.GetString("s3-bucket-name"),
		SentryDSN:         v.GetString("sentry-dsn"),
		Environment:       v.GetString("sentry-environment"),
		OTLPEndpoint:      v.GetString("otel-exporter-otlp-endpoint"),
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("port must not be empty")
	}
	if cfg.PageSpeedTimeout <= 0 {
		return nil, fmt.Errorf("pagespeed timeout must be greater than 0 (received %s)", cfg.PageSpeedTimeout)
	}

	retries := v.GetInt("pagespeed-max-retries")
	if retries < 0 {
		return nil, fmt.Errorf("pagespeed max retries cannot be negative (received %d)", retries)
	}
	cfg.PageSpeedMaxRetries = uint64(retries)

	if cfg.HistoryLimit < 0 {
		return nil, fmt.Errorf("history limit cannot be negative (received %d)", cfg.HistoryLimit)
	}
	if cfg.ArchiveEnabled {
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("s3 bucket name is required when archiving is enabled")
		}
		if cfg.CacheMaxAge <= 0 || cfg.CleanupInterval <= 0 {
			return nil, fmt.Errorf("archive cache max age and cleanup interval must be greater than 0")
		}
	}

	return cfg, nil
}
