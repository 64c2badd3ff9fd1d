package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// SessionSecret signs the browser-session cookie.
	SessionSecret string `env:"SESSION_SECRET, required"`
	// OpsKey and SetupKey are the URL secrets for the staff entry and the
	// first-run setup flow. They hide entry points; they grant nothing.
	OpsKey   string `env:"OPS_ACCESS_KEY"`
	SetupKey string `env:"SETUP_KEY"`

	SupportPhone string `env:"SUPPORT_PHONE, default=+9779800000000"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Email  EmailConfig
	Notify NotifyConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=gharun"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type EmailConfig struct {
	FunctionURL string        `env:"EMAIL_FUNCTION_URL"`
	APIKey      string        `env:"EMAIL_FUNCTION_KEY"`
	Timeout     time.Duration `env:"EMAIL_TIMEOUT, default=10s"`
}

type NotifyConfig struct {
	Workers int `env:"NOTIFY_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for process startup.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err)
	}
	return cfg
}
