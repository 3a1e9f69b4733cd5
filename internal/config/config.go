package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
// RedisAddr and MongoURI are optional; leaving them empty disables the
// session cache and the audit trail respectively.
type Config struct {
	Port          string `env:"PORT,default=3333"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDB       string `env:"MONGO_DB,default=daily_diet"`
	Env           string `env:"APP_ENV,default=development"`
}

func Load() (*Config, error) {
	// A .env file is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return c.Env == "production"
}
