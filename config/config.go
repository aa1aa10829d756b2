package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mongo configuration (event archive).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisEventsDB int    `mapstructure:"REDIS_EVENTS_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Engine identities.
	AdminAddress    string `mapstructure:"ADMIN_ADDRESS"`
	OracleAddress   string `mapstructure:"ORACLE_ADDRESS"`
	TreasuryAddress string `mapstructure:"TREASURY_ADDRESS"`
	VaultAddress    string `mapstructure:"VAULT_ADDRESS"`

	// Engine economic defaults. Durations are minutes; amounts are token
	// base units.
	FeeBps               int64 `mapstructure:"FEE_BPS"`
	LateCancelPenaltyBps int64 `mapstructure:"LATE_CANCEL_PENALTY_BPS"`
	ChallengeWindowMins  int   `mapstructure:"CHALLENGE_WINDOW_MINS"`
	NoAttestBufferMins   int   `mapstructure:"NO_ATTEST_BUFFER_MINS"`
	DisputeTimeoutMins   int   `mapstructure:"DISPUTE_TIMEOUT_MINS"`
	ChallengeBond        int64 `mapstructure:"CHALLENGE_BOND"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_EVENTS_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("ADMIN_ADDRESS", "")
	viper.SetDefault("ORACLE_ADDRESS", "")
	viper.SetDefault("TREASURY_ADDRESS", "")
	viper.SetDefault("VAULT_ADDRESS", "")
	viper.SetDefault("FEE_BPS", 300)
	viper.SetDefault("LATE_CANCEL_PENALTY_BPS", 2000)
	viper.SetDefault("CHALLENGE_WINDOW_MINS", 24*60)
	viper.SetDefault("NO_ATTEST_BUFFER_MINS", 48*60)
	viper.SetDefault("DISPUTE_TIMEOUT_MINS", 7*24*60)
	viper.SetDefault("CHALLENGE_BOND", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ChallengeWindow returns the configured default challenge window.
func (c Config) ChallengeWindow() time.Duration {
	return time.Duration(c.ChallengeWindowMins) * time.Minute
}

// NoAttestBuffer returns the configured default no-attest buffer.
func (c Config) NoAttestBuffer() time.Duration {
	return time.Duration(c.NoAttestBufferMins) * time.Minute
}

// DisputeTimeout returns the configured default dispute timeout.
func (c Config) DisputeTimeout() time.Duration {
	return time.Duration(c.DisputeTimeoutMins) * time.Minute
}
