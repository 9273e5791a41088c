package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port string `mapstructure:"port"`

	StoreBackend string `mapstructure:"store_backend"`
	DBFile       string `mapstructure:"db_file"`
	DocumentName string `mapstructure:"document_name"`
	MongoURI     string `mapstructure:"mongo_uri"`
	MongoDB      string `mapstructure:"mongo_db"`
	PostgresDSN  string `mapstructure:"postgres_dsn"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	LockTTL       time.Duration `mapstructure:"lock_ttl"`

	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioObjectKey string `mapstructure:"minio_object_key"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`

	PasswordHasher string `mapstructure:"password_hasher"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

var defaults = map[string]interface{}{
	"port":             "5000",
	"store_backend":    "file",
	"db_file":          "database.json",
	"document_name":    "krishi-mitr",
	"mongo_uri":        "",
	"mongo_db":         "krishi_mitr",
	"postgres_dsn":     "",
	"redis_addr":       "",
	"redis_password":   "",
	"lock_ttl":         "10s",
	"minio_endpoint":   "",
	"minio_access_key": "",
	"minio_secret_key": "",
	"minio_bucket":     "krishi-mitr-snapshots",
	"minio_object_key": "database.json",
	"minio_use_ssl":    false,
	"password_hasher":  "plain",
	"log_level":        "info",
	"log_format":       "json",
	"rate_limit_rps":   0,
	"rate_limit_burst": 20,
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "file":
		if c.DBFile == "" {
			return fmt.Errorf("DB_FILE is required for the file backend")
		}
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.PasswordHasher {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unknown PASSWORD_HASHER %q", c.PasswordHasher)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// MinioEnabled reports whether snapshots should be mirrored to MinIO.
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}
