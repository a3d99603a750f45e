package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env     string
	OpsPort int

	Bot          BotConfig
	Data         DataConfig
	State        StateConfig
	Registration RegistrationConfig
	Callbacks    CallbackConfig
	Cache        CacheConfig
	Redis        RedisConfig
	Log          LogConfig
}

// BotConfig holds the chat transport credentials and polling behaviour.
type BotConfig struct {
	Token       string
	PollTimeout time.Duration
	SendRetries int
}

// DataConfig locates the per-section result workbooks.
type DataConfig struct {
	Dir string
}

// StateConfig locates the persisted identity and audit files.
type StateConfig struct {
	Dir string
}

// RegistrationConfig tunes the pending-registration state machine.
type RegistrationConfig struct {
	PendingTTL     time.Duration
	PINMaxAttempts int
}

// CallbackConfig tunes callback deduplication.
type CallbackConfig struct {
	DedupWindow time.Duration
}

// CacheConfig governs result-grid caching.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.OpsPort = v.GetInt("OPS_PORT")

	cfg.Bot = BotConfig{
		Token:       v.GetString("BOT_TOKEN"),
		PollTimeout: parseDuration(v.GetString("BOT_POLL_TIMEOUT"), 10*time.Second),
		SendRetries: v.GetInt("BOT_SEND_RETRIES"),
	}

	cfg.Data = DataConfig{Dir: v.GetString("DATA_DIR")}
	cfg.State = StateConfig{Dir: v.GetString("STATE_DIR")}

	cfg.Registration = RegistrationConfig{
		PendingTTL:     parseDuration(v.GetString("REGISTRATION_TTL"), 300*time.Second),
		PINMaxAttempts: v.GetInt("PIN_MAX_ATTEMPTS"),
	}

	cfg.Callbacks = CallbackConfig{
		DedupWindow: parseDuration(v.GetString("CALLBACK_DEDUP_WINDOW"), 24*time.Hour),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_RESULT_CACHE"),
		TTL:     parseDuration(v.GetString("RESULT_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("OPS_PORT", 8080)

	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("BOT_POLL_TIMEOUT", "10s")
	v.SetDefault("BOT_SEND_RETRIES", 3)

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("STATE_DIR", "./state")

	v.SetDefault("REGISTRATION_TTL", "300s")
	v.SetDefault("PIN_MAX_ATTEMPTS", 100)

	v.SetDefault("CALLBACK_DEDUP_WINDOW", "24h")

	v.SetDefault("ENABLE_RESULT_CACHE", false)
	v.SetDefault("RESULT_CACHE_TTL", "10m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
