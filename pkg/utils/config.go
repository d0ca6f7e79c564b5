package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Media     MediaConfig
	Events    EventsConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host      string
	Port      string
	Name      string
	User      string
	Password  string
	MaxConns  int32
	Bootstrap bool
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address has been configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

type MediaConfig struct {
	Root       string
	URLPrefix  string
	MaxUploadB int64
}

type EventsConfig struct {
	Enabled bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "theatre-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_BOOTSTRAP", true)
	viper.SetDefault("JWT_ACCESS_TTL_MINUTES", 15)
	viper.SetDefault("JWT_REFRESH_TTL_HOURS", 24)
	viper.SetDefault("JWT_ISSUER", "theatre-booking")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CACHE_TTL_SECONDS", 30)
	viper.SetDefault("CACHE_PREFIX", "cache:theatre")
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_CAPACITY", 60)
	viper.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	viper.SetDefault("RATE_LIMIT_REFILL_INTERVAL_MS", 1000)
	viper.SetDefault("RATE_LIMIT_TTL_SECONDS", 120)
	viper.SetDefault("RATE_LIMIT_PREFIX", "rl")
	viper.SetDefault("MEDIA_ROOT", "media/")
	viper.SetDefault("MEDIA_URL_PREFIX", "/media/")
	viper.SetDefault("MEDIA_MAX_UPLOAD_MB", 5)
	viper.SetDefault("EVENTS_ENABLED", true)

	viper.AutomaticEnv()

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			ShutdownTimeout: time.Duration(viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			Host:      viper.GetString("DB_HOST"),
			Port:      viper.GetString("DB_PORT"),
			Name:      viper.GetString("DB_NAME"),
			User:      viper.GetString("DB_USER"),
			Password:  viper.GetString("DB_PASS"),
			MaxConns:  viper.GetInt32("DB_MAX_CONNS"),
			Bootstrap: viper.GetBool("DB_BOOTSTRAP"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("JWT_SECRET"),
			AccessTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TTL_MINUTES")) * time.Minute,
			RefreshTTL: time.Duration(viper.GetInt("JWT_REFRESH_TTL_HOURS")) * time.Hour,
			Issuer:     viper.GetString("JWT_ISSUER"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled: viper.GetBool("CACHE_ENABLED"),
			TTL:     time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
			Prefix:  viper.GetString("CACHE_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        viper.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       viper.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   viper.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: time.Duration(viper.GetInt("RATE_LIMIT_REFILL_INTERVAL_MS")) * time.Millisecond,
			TTL:            time.Duration(viper.GetInt("RATE_LIMIT_TTL_SECONDS")) * time.Second,
			Prefix:         viper.GetString("RATE_LIMIT_PREFIX"),
		},
		Media: MediaConfig{
			Root:       viper.GetString("MEDIA_ROOT"),
			URLPrefix:  viper.GetString("MEDIA_URL_PREFIX"),
			MaxUploadB: viper.GetInt64("MEDIA_MAX_UPLOAD_MB") << 20,
		},
		Events: EventsConfig{
			Enabled: viper.GetBool("EVENTS_ENABLED"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
