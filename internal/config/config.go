// internal/config/config.go
//
// Runtime configuration, read from the environment (after main has loaded any
// .env file with godotenv).

package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port      string `env:"PORT" env-default:"5175"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"` // json | console

	DatabasePath string `env:"DATABASE_PATH" env-default:"./data/battleship.db"`

	StoreBackend string `env:"STORE_BACKEND" env-default:"memory"` // memory | redis
	Redis        Redis

	ClientOrigin string `env:"CLIENT_ORIGIN" env-default:"http://localhost:5173"`
	Production   bool   `env:"PRODUCTION" env-default:"false"`

	Auth  Auth
	Daily Daily
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	// TTLHours bounds how long an idle game is kept; 0 keeps games forever.
	TTLHours int `env:"REDIS_TTL_HOURS" env-default:"72"`
}

type Auth struct {
	JWTSecret  string `env:"JWT_SECRET" env-default:"dev_secret_change_me"`
	ExpireDays int    `env:"JWT_EXPIRES_DAYS" env-default:"14"`
	CookieName string `env:"COOKIE_NAME" env-default:"battleship_token"`
}

type Daily struct {
	Salt string `env:"DAILY_SALT" env-default:"local_dev_salt"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to read config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.Auth.ExpireDays <= 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be positive, got %d", c.Auth.ExpireDays)
	}
	return nil
}
