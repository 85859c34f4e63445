package config // package config loads application configuration from the environment and an optional .env file

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devJWTSecret is only used outside production when JWT_SECRET is unset.
const devJWTSecret = "goldcinema_dev_secret_change_me"

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; nested structs group the optional subsystems.
type Config struct {
	Env        string        // application environment (development, test, production)
	Port       string        // HTTP port to listen on
	LogLevel   string        // zerolog level name
	DB         DBConfig      // relational store settings
	JWTSecret  string        // secret used to sign access tokens
	JWTIssuer  string        // iss claim written into every token
	AccessTTL  time.Duration // access token lifetime
	BcryptCost int           // bcrypt cost for password hashing
	RabbitURL  string        // AMQP URL for booking events; empty disables publishing
	Admin      AdminConfig   // administrator account created by cmd/seed
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Cache      CacheConfig
}

// DBConfig selects the SQL driver and its connection parameters. When DSN is
// set it is passed to the driver verbatim.
type DBConfig struct {
	Driver     string // mysql | postgres | sqlite
	DSN        string
	User       string
	Pass       string
	Host       string
	Port       string
	Name       string
	SQLitePath string
}

// AdminConfig describes the seeded administrator.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Load reads configuration values and returns a validated Config. A .env
// file in the working directory is loaded first when present; real
// environment variables always win over it.
func Load() (Config, error) {
	_ = godotenv.Load() // optional; missing file is not an error
	return FromViper(newViper())
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	env := strings.ToLower(v.GetString("APP_ENV"))
	secret := v.GetString("JWT_SECRET")
	if secret == "" && env != "production" {
		secret = devJWTSecret
	}
	cfg := Config{
		Env:      env,
		Port:     v.GetString("APP_PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		DB: DBConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:        v.GetString("DB_DSN"),
			User:       v.GetString("DB_USER"),
			Pass:       v.GetString("DB_PASS"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		JWTSecret:  secret,
		JWTIssuer:  v.GetString("JWT_ISSUER"),
		AccessTTL:  v.GetDuration("ACCESS_TOKEN_TTL"),
		BcryptCost: v.GetInt("BCRYPT_COST"),
		RabbitURL:  firstNonEmpty(v.GetString("RABBITMQ_URL"), v.GetString("AMQP_URL")),
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Redis:     loadRedisConfig(v),
		RateLimit: loadRateLimitConfig(v),
		Cache:     loadCacheConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that would make the server unusable.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.AccessTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTTL)
	}
	if c.Port == "" {
		return errors.New("config: APP_PORT is required")
	}
	return nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c Config) IsDevelopment() bool { return c.Env == "development" }

// UsesDevSecret reports whether tokens are signed with the built-in
// development secret because JWT_SECRET was left unset.
func (c Config) UsesDevSecret() bool { return c.JWTSecret == devJWTSecret }

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "4000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_NAME", "goldcinema")
	v.SetDefault("SQLITE_PATH", "data/goldcinema.db")
	v.SetDefault("JWT_ISSUER", "gold-cinema")
	v.SetDefault("ACCESS_TOKEN_TTL", "8h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@goldcinema.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 20)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "3s")
	v.SetDefault("RATE_LIMIT_TTL", "10m")
	v.SetDefault("RATE_LIMIT_KEY_STRATEGY", "ip_route")
	v.SetDefault("RATE_LIMIT_PREFIX", "rl")

	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_METHODS", "GET")
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("CACHE_KEY_STRATEGY", "path_query")
	v.SetDefault("CACHE_PREFIX", "cache")
	v.SetDefault("CACHE_MAX_BODY_BYTES", 1048576)
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
