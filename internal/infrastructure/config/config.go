// Package config loads runtime configuration from the environment.
package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT    JWTConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Mail   MailConfig
	Stripe StripeConfig
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
	// ExpiresIn bounds both the token lifetime and the auth cookie.
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN, default=2160h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=natours"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MailConfig struct {
	APIKey    string `env:"MAILERSEND_API_KEY"`
	FromName  string `env:"MAIL_FROM_NAME,  default=Natours"`
	FromEmail string `env:"MAIL_FROM_EMAIL, default=hello@natours.io"`
	// BaseURL is the public origin used to build password-reset links.
	BaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
}

type StripeConfig struct {
	SecretKey  string `env:"STRIPE_SECRET_KEY"`
	SuccessURL string `env:"STRIPE_SUCCESS_URL, default=http://localhost:8080/"`
	CancelURL  string `env:"STRIPE_CANCEL_URL,  default=http://localhost:8080/"`
}

// Development reports whether the service runs with relaxed error output and
// insecure cookies.
func (c *Config) Development() bool {
	return c.Env != "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		panic(err)
	}
	return &cfg
}
