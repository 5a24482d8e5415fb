package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minJWTSecretLength = 32

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Woo      WooConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Mode           string
	RequestTimeout time.Duration
	AllowedOrigins []string
	TrustedProxies []string
}

// Addr returns the listen address, preferring APP_HOST when it is set.
func (s ServerConfig) Addr() string {
	if s.Host != "" {
		return s.Host
	}
	return ":" + s.Port
}

type DatabaseConfig struct {
	URL           string
	MigrationsDir string
	RunMigrations bool
}

type AuthConfig struct {
	JWTSecret       string
	JWTTTL          time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type WooConfig struct {
	SealKey     string
	HTTPTimeout time.Duration
}

type CacheConfig struct {
	Enabled  bool
	RedisURL string
	TTL      time.Duration
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_HOST", "")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("MIGRATIONS_DIR", "./migrations")
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "5m")
	v.SetDefault("WOO_CONFIG_KEY", "")
	v.SetDefault("WOO_HTTP_TIMEOUT", "20s")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "redis://127.0.0.1:6379/0")
	v.SetDefault("CACHE_TTL", "1m")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Host:           v.GetString("APP_HOST"),
			Mode:           v.GetString("GIN_MODE"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			URL:           v.GetString("DATABASE_URL"),
			MigrationsDir: v.GetString("MIGRATIONS_DIR"),
			RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			JWTTTL:          v.GetDuration("JWT_TTL"),
			LoginRateLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
			LoginRateWindow: v.GetDuration("LOGIN_RATE_WINDOW"),
		},
		Woo: WooConfig{
			SealKey:     v.GetString("WOO_CONFIG_KEY"),
			HTTPTimeout: v.GetDuration("WOO_HTTP_TIMEOUT"),
		},
		Cache: CacheConfig{
			Enabled:  v.GetBool("CACHE_ENABLED"),
			RedisURL: v.GetString("REDIS_URL"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.Mode == "release" && len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in release mode", minJWTSecretLength)
	}
	if c.Auth.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}
	if c.Woo.SealKey == "" {
		// sealing falls back to the JWT secret
		c.Woo.SealKey = c.Auth.JWTSecret
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
