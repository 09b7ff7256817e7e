package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the photodrop handlers.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	Pipeline PipelineConfig
	Mail     MailConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	AutoMigrate bool
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries object store connection, bucket and signing settings.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	// UploadPrefix is prepended to every requested filename.
	UploadPrefix string
	UploadURLTTL time.Duration
	ViewURLTTL   time.Duration
	// NotifyQueueARN, when set, subscribes the bucket's ObjectCreated events
	// under UploadPrefix to that notification target on startup.
	NotifyQueueARN string
}

// PipelineConfig tunes the upload/metadata/gallery handlers.
type PipelineConfig struct {
	ObjectStoreTimeout time.Duration
	StoreTimeout       time.Duration
	RecordConcurrency  int
	URLConcurrency     int
	DefaultListLimit   int
	MaxListLimit       int
}

// MailConfig holds SMTP settings for the contact form.
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	To        string
	TLSPolicy string
	Timeout   time.Duration
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
	ServiceName string
}

// Load reads configuration values from environment variables, applying defaults.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host:         getString("PHOTODROP_API_HOST", "0.0.0.0"),
			Port:         getInt("PHOTODROP_API_PORT", 8080),
			ReadTimeout:  getDuration("PHOTODROP_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("PHOTODROP_API_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("PHOTODROP_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:        getString("POSTGRES_HOST", "localhost"),
			Port:        getInt("POSTGRES_PORT", 5432),
			User:        getString("POSTGRES_USER", "photodrop"),
			Password:    getString("POSTGRES_PASSWORD", "change-me"),
			Database:    getString("POSTGRES_DB", "photodrop"),
			SSLMode:     strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
			AutoMigrate: getBool("PHOTODROP_AUTO_MIGRATE", true),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "photodrop"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "photo-uploader"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			UploadPrefix:    getString("PHOTODROP_UPLOAD_PREFIX", "uploads/"),
			UploadURLTTL:    getDuration("PHOTODROP_UPLOAD_URL_TTL", 5*time.Minute),
			ViewURLTTL:      getDuration("PHOTODROP_VIEW_URL_TTL", time.Hour),
			NotifyQueueARN:  getString("MINIO_NOTIFY_QUEUE_ARN", ""),
		},
		Pipeline: PipelineConfig{
			ObjectStoreTimeout: getDuration("PHOTODROP_OBJECT_STORE_TIMEOUT", 5*time.Second),
			StoreTimeout:       getDuration("PHOTODROP_STORE_TIMEOUT", 5*time.Second),
			RecordConcurrency:  getInt("PHOTODROP_RECORD_CONCURRENCY", 8),
			URLConcurrency:     getInt("PHOTODROP_URL_CONCURRENCY", 8),
			DefaultListLimit:   getInt("PHOTODROP_DEFAULT_LIST_LIMIT", 20),
			MaxListLimit:       getInt("PHOTODROP_MAX_LIST_LIMIT", 100),
		},
		Mail: MailConfig{
			Host:      getString("SMTP_HOST", "localhost"),
			Port:      getInt("SMTP_PORT", 587),
			Username:  getString("SMTP_USERNAME", ""),
			Password:  getString("SMTP_PASSWORD", ""),
			From:      getString("CONTACT_SENDER_EMAIL", "sender@example.com"),
			To:        getString("CONTACT_RECIPIENT_EMAIL", "recipient@example.com"),
			TLSPolicy: strings.ToLower(getString("SMTP_TLS_POLICY", "opportunistic")),
			Timeout:   getDuration("SMTP_TIMEOUT", 10*time.Second),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("PHOTODROP_METRICS_PATH", "/metrics"),
		},
		Tracing: TracingConfig{
			Enabled:     getBool("PHOTODROP_TRACING_ENABLED", false),
			Endpoint:    getString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRatio: getFloat("PHOTODROP_TRACING_SAMPLE_RATIO", 1.0),
			ServiceName: getString("OTEL_SERVICE_NAME", "photodrop"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.MinIO.Bucket == "" {
		errs = append(errs, errors.New("MINIO_BUCKET must not be empty"))
	}
	if c.MinIO.UploadPrefix != "" && !strings.HasSuffix(c.MinIO.UploadPrefix, "/") {
		errs = append(errs, fmt.Errorf("PHOTODROP_UPLOAD_PREFIX %q must end with /", c.MinIO.UploadPrefix))
	}
	if c.MinIO.UploadURLTTL <= 0 || c.MinIO.ViewURLTTL <= 0 {
		errs = append(errs, errors.New("presigned url ttl must be positive"))
	}
	if c.Pipeline.ObjectStoreTimeout <= 0 || c.Pipeline.StoreTimeout <= 0 {
		errs = append(errs, errors.New("pipeline timeouts must be positive"))
	}
	if c.Pipeline.DefaultListLimit < 1 || c.Pipeline.MaxListLimit < c.Pipeline.DefaultListLimit {
		errs = append(errs, fmt.Errorf("list limits out of range: default=%d max=%d",
			c.Pipeline.DefaultListLimit, c.Pipeline.MaxListLimit))
	}
	if c.Pipeline.RecordConcurrency < 1 || c.Pipeline.URLConcurrency < 1 {
		errs = append(errs, errors.New("concurrency limits must be at least 1"))
	}
	return errors.Join(errs...)
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
