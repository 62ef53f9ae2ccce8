package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-wide configuration, loaded once at startup and
// injected into constructors. Nothing reads the environment after Load.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// APIKey is the pre-shared key every request must present.
	APIKey string `env:"API_KEY"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
	Admin AdminConfig
}

// AdminConfig seeds the initial admin account. Seeding is skipped when the
// email is empty or already registered.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=backstage"`
}

type RedisConfig struct {
	// Addr left empty disables Redis: login throttling degrades to a no-op.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type MailConfig struct {
	// BaseURL left empty disables outbound mail entirely.
	BaseURL string `env:"MAIL_BASE_URL"`
	APIKey  string `env:"MAIL_API_KEY"`
	From    string `env:"MAIL_FROM, default=no-reply@backstage.local"`
	// Workers sizes the async delivery pool.
	Workers int `env:"MAIL_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
