package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type EnvConfig struct {
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
		SSLMode  string
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Enabled  bool
		Host     string
		Port     string
		Username string
		Password string
	}
	Storage struct {
		Driver    string // minio | s3 | memory
		Bucket    string
		PublicURL string
	}
	Minio struct {
		Endpoint     string
		RootUser     string
		RootPassword string
		UseSSL       bool
	}
	S3 struct {
		Region    string
		Endpoint  string
		AccessKey string
		SecretKey string
	}
	Upload struct {
		MaxFileSize int64
		MaxFiles    int
		Concurrency int
	}
	Cache struct {
		TTL time.Duration
	}
	Cleanup struct {
		MaxAttempts int
	}
	Grafana struct {
		OTLPEndpoint string
		Insecure     bool
		ServiceName  string
	}
	Environment struct {
		Mode  string
		Group string
	}
	HTTPPort string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = getEnv("PGPOOL_PORT", "5432")
	config.Postgres.SSLMode = getEnv("PGPOOL_SSLMODE", "disable")

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	config.Redis.RedisPort = getEnv("REDIS_PORT", "6379")

	// RabbitMQ carries deferred deletions; the admin API works without it
	config.RabbitMQ.Enabled = getEnvBool("RABBITMQ_ENABLED", true)
	config.RabbitMQ.Host = getEnv("RABBITMQ_HOST", "localhost")
	config.RabbitMQ.Port = getEnv("RABBITMQ_PORT", "5672")
	config.RabbitMQ.Username = getEnv("RABBITMQ_USER", "guest")
	config.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", "guest")

	// Object storage
	config.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", "minio"))
	config.Storage.Bucket = getEnv("STORAGE_BUCKET", "showcase")
	config.Storage.PublicURL = strings.TrimRight(os.Getenv("STORAGE_PUBLIC_URL"), "/")

	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")
	config.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", false)

	config.S3.Region = getEnv("S3_REGION", "us-east-1")
	config.S3.Endpoint = os.Getenv("S3_ENDPOINT")
	config.S3.AccessKey = os.Getenv("S3_ACCESS_KEY")
	config.S3.SecretKey = os.Getenv("S3_SECRET_KEY")

	if config.Storage.PublicURL == "" {
		config.Storage.PublicURL = defaultPublicURL(&config)
	}

	// Upload limits, 20MB per file and 30 files per request by default
	config.Upload.MaxFileSize = getEnvInt64("UPLOAD_MAX_FILE_SIZE", 20*1024*1024)
	config.Upload.MaxFiles = int(getEnvInt64("UPLOAD_MAX_FILES", 30))
	config.Upload.Concurrency = int(getEnvInt64("UPLOAD_CONCURRENCY", 8))

	config.Cache.TTL = time.Duration(getEnvInt64("CACHE_TTL", 300)) * time.Second
	config.Cleanup.MaxAttempts = int(getEnvInt64("CLEANUP_MAX_ATTEMPTS", 5))

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	config.Grafana.Insecure = strings.HasPrefix(grafanaEndpoint, "http://")
	// Remove protocol for OpenTelemetry client to avoid duplicate protocols
	grafanaEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	config.Grafana.ServiceName = getEnv("SERVICE_NAME", "gau-showcase-admin")

	config.Environment.Mode = getEnv("DEPLOY_ENV", "development")
	config.Environment.Group = getEnv("GROUP_NAME", "local")

	config.HTTPPort = getEnv("HTTP_PORT", "8080")

	return &config
}

func defaultPublicURL(cfg *EnvConfig) string {
	switch cfg.Storage.Driver {
	case "s3":
		if cfg.S3.Endpoint != "" {
			return strings.TrimRight(cfg.S3.Endpoint, "/")
		}
		return "https://s3." + cfg.S3.Region + ".amazonaws.com"
	case "memory":
		return "http://localhost:" + getEnv("HTTP_PORT", "8080") + "/storage"
	default:
		scheme := "http://"
		if cfg.Minio.UseSSL {
			scheme = "https://"
		}
		return scheme + cfg.Minio.Endpoint
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
