package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config defines the MobyPark backend configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"MOBYPARK_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"MOBYPARK_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"MOBYPARK_REDIS_ADDR"`
		Password string `yaml:"password" env:"MOBYPARK_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"MOBYPARK_REDIS_DB"`
	} `yaml:"redis"`
	Session struct {
		TTL int `yaml:"ttlSeconds" env:"MOBYPARK_SESSION_TTL"`
	} `yaml:"session"`
	Auth struct {
		BcryptCost int `yaml:"bcryptCost" env:"MOBYPARK_BCRYPT_COST"`
	} `yaml:"auth"`
}

// Load reads configuration from the optional YAML file plus env overrides.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Session.TTL = 86400

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	return cfg, nil
}

// HTTPAddress returns the listen address in :port form.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// SessionTTL returns the session token lifetime.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Session.TTL) * time.Second
}
