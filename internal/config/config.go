package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/quokka-community/migration-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration, loaded from YAML with env overrides
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Feed      FeedConfig      `yaml:"feed"`
	Community CommunityConfig `yaml:"community"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN builds the MySQL DSN
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // seconds
	RefreshIn int    `yaml:"refresh_in"` // seconds
}

// FeedConfig external social feed source (Graph-shaped API)
type FeedConfig struct {
	BaseURL string `yaml:"base_url"`
	PageID  string `yaml:"page_id"`
	Timeout int    `yaml:"timeout"` // seconds
}

// CommunityConfig community platform REST API
type CommunityConfig struct {
	BaseURL string `yaml:"base_url"`
	// Token is the service-account bearer token used for group,
	// media and activity calls.
	Token   string `yaml:"token"`
	Timeout int    `yaml:"timeout"` // seconds
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// Load reads the YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required (set JWT_SECRET)")
	}

	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values,
// mainly so secrets stay out of the config files.
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")
	overrideInt(&cfg.Database.Port, "DB_PORT")

	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")

	overrideString(&cfg.JWT.Secret, "JWT_SECRET")

	overrideString(&cfg.Feed.BaseURL, "FEED_BASE_URL")
	overrideString(&cfg.Feed.PageID, "FEED_PAGE_ID")

	overrideString(&cfg.Community.BaseURL, "COMMUNITY_BASE_URL")
	overrideString(&cfg.Community.Token, "COMMUNITY_TOKEN")

	overrideInt(&cfg.Server.Port, "PORT")
	overrideString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// IsDevelopment reports whether the server runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "" || c.Server.Env == "development" || c.Server.Env == "dev" || c.Server.Env == "local"
}

// LogResolved logs the effective configuration without secrets
func LogResolved(cfg *Config) {
	logger.Info("config: server.port=%d env=%s db=%s@%s:%d/%s redis=%s:%d feed=%s community=%s",
		cfg.Server.Port, cfg.Server.Env,
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name,
		cfg.Redis.Host, cfg.Redis.Port,
		cfg.Feed.BaseURL, cfg.Community.BaseURL)
}
