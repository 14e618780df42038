package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Stream   StreamConfig   `yaml:"stream"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
	BasePath       string        `yaml:"base_path" env:"API_BASE_PATH" env-default:"/api"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" env:"DATABASE_URL"`
	MaxConns int32  `yaml:"max_conns" env:"DATABASE_MAX_CONNS" env-default:"10"`
}

type StorageConfig struct {
	Driver          string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"s3"`
	Endpoint        string        `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	Region          string        `yaml:"region" env:"STORAGE_REGION" env-default:"us-east-1"`
	AccessKeyID     string        `yaml:"access_key_id" env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string        `yaml:"secret_access_key" env:"STORAGE_SECRET_ACCESS_KEY"`
	Bucket          string        `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"verification_documents"`
	SignedURLTTL    time.Duration `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL" env-default:"1h"`
}

type RedisConfig struct {
	URL          string        `yaml:"url" env:"REDIS_URL"`
	StatsTTL     time.Duration `yaml:"stats_ttl" env:"STATS_CACHE_TTL" env-default:"15s"`
	AdminRoleTTL time.Duration `yaml:"admin_role_ttl" env:"ADMIN_ROLE_CACHE_TTL" env-default:"5m"`
}

type StreamConfig struct {
	APIKey string        `yaml:"api_key" env:"STREAM_API_KEY"`
	Secret string        `yaml:"secret" env:"STREAM_SECRET"`
	Leeway time.Duration `yaml:"leeway" env:"STREAM_TOKEN_LEEWAY" env-default:"0s"`
}

// AuthConfig configures the admin gate. An empty JWTSecret disables it.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
}

func (c *Config) IsLocal() bool { return c.Env == "" || c.Env == "local" }

// Load reads the YAML file named by CONFIG_PATH when set, then applies
// environment overrides, then validates.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Stream.APIKey == "" {
		return fmt.Errorf("STREAM_API_KEY environment variable is required")
	}

	if c.Stream.Secret == "" {
		return fmt.Errorf("STREAM_SECRET environment variable is required")
	}

	if c.Stream.Leeway < 0 {
		return fmt.Errorf("STREAM_TOKEN_LEEWAY must be >= 0")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	if c.Storage.Driver != "s3" && c.Storage.Driver != "minio" {
		return fmt.Errorf("STORAGE_DRIVER must be one of s3, minio")
	}

	if c.Storage.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT environment variable is required")
	}

	if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY environment variables are required")
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET must not be empty")
	}

	if c.Storage.SignedURLTTL <= 0 {
		return fmt.Errorf("STORAGE_SIGNED_URL_TTL must be > 0")
	}

	if c.Redis.StatsTTL < 0 || c.Redis.AdminRoleTTL < 0 {
		return fmt.Errorf("cache TTLs must be >= 0")
	}

	if !strings.HasPrefix(c.Server.BasePath, "/") {
		c.Server.BasePath = "/" + c.Server.BasePath
	}
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")

	return nil
}
