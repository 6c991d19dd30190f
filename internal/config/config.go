package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend names, selected by BLOB_BACKEND and RECORD_BACKEND.
const (
	BlobBackendS3 = "s3"
	BlobBackendFS = "fs"

	RecordBackendDynamoDB = "dynamodb"
	RecordBackendRedis    = "redis"
	RecordBackendFS       = "fs"
)

// Config holds all application configuration.
type Config struct {
	Environment   string
	API           APIConfig
	AWS           AWSConfig
	Storage       StorageConfig
	Redis         RedisConfig
	Ingest        IngestConfig
	Observability ObservabilityConfig
	CORS          CORSConfig
}

// APIConfig holds API server configuration.
type APIConfig struct {
	Port string
}

// AWSConfig holds AWS-specific configuration.
type AWSConfig struct {
	Region        string
	S3Bucket      string
	DynamoDBTable string
}

// StorageConfig selects the persistence backends and their local layout.
type StorageConfig struct {
	BlobBackend   string
	RecordBackend string
	BlobDir       string
	RecordDir     string
	BlobKeyPrefix string
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
}

// IngestConfig holds thumbnail ingestion limits.
type IngestConfig struct {
	FetchTimeout      time.Duration
	MaxThumbnailBytes int64
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTLPEndpoint string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowedOrigins []string
}

// Default values
const (
	DefaultPort              = "8080"
	DefaultRegion            = "us-west-2"
	DefaultOTLPEndpoint      = "localhost:4317"
	DefaultBlobDir           = "private"
	DefaultRecordDir         = "data"
	DefaultBlobKeyPrefix     = "thumbnails"
	DefaultFetchTimeout      = 15 * time.Second
	DefaultMaxThumbnailBytes = 20 << 20 // 20 MiB
)

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENV", "dev"),
		API: APIConfig{
			Port: getEnv("PORT", DefaultPort),
		},
		AWS: AWSConfig{
			Region:        getEnv("AWS_REGION", DefaultRegion),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			DynamoDBTable: os.Getenv("DYNAMODB_TABLE"),
		},
		Storage: StorageConfig{
			BlobBackend:   getEnv("BLOB_BACKEND", BlobBackendFS),
			RecordBackend: getEnv("RECORD_BACKEND", RecordBackendFS),
			BlobDir:       getEnv("BLOB_DIR", DefaultBlobDir),
			RecordDir:     getEnv("RECORD_DIR", DefaultRecordDir),
			BlobKeyPrefix: getEnv("BLOB_KEY_PREFIX", DefaultBlobKeyPrefix),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Ingest: IngestConfig{
			FetchTimeout:      getEnvDuration("THUMBNAIL_FETCH_TIMEOUT", DefaultFetchTimeout),
			MaxThumbnailBytes: getEnvInt64("THUMBNAIL_MAX_BYTES", DefaultMaxThumbnailBytes),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", DefaultOTLPEndpoint),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", nil),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected backends have the settings they need.
func (c *Config) Validate() error {
	var errs []string

	switch c.Storage.BlobBackend {
	case BlobBackendS3:
		if c.AWS.S3Bucket == "" {
			errs = append(errs, "S3_BUCKET is required when BLOB_BACKEND=s3")
		}
	case BlobBackendFS:
		if c.Storage.BlobDir == "" {
			errs = append(errs, "BLOB_DIR is required when BLOB_BACKEND=fs")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown BLOB_BACKEND %q", c.Storage.BlobBackend))
	}

	switch c.Storage.RecordBackend {
	case RecordBackendDynamoDB:
		if c.AWS.DynamoDBTable == "" {
			errs = append(errs, "DYNAMODB_TABLE is required when RECORD_BACKEND=dynamodb")
		}
	case RecordBackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "REDIS_ADDR is required when RECORD_BACKEND=redis")
		}
	case RecordBackendFS:
		if c.Storage.RecordDir == "" {
			errs = append(errs, "RECORD_DIR is required when RECORD_BACKEND=fs")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown RECORD_BACKEND %q", c.Storage.RecordBackend))
	}

	if c.Ingest.MaxThumbnailBytes <= 0 {
		errs = append(errs, "THUMBNAIL_MAX_BYTES must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// UsesAWS returns true if any selected backend needs an AWS client.
func (c *Config) UsesAWS() bool {
	return c.Storage.BlobBackend == BlobBackendS3 || c.Storage.RecordBackend == RecordBackendDynamoDB
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "prod" || env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil && intVal > 0 {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
