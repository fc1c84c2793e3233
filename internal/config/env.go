package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PAYCYCLE_"

// LoadDotEnv loads a .env file from the working directory if present.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func applyEnv(cfg *Config) {
	cfg.General.DefaultPayday = getEnvInt("DEFAULT_PAYDAY", cfg.General.DefaultPayday)
	cfg.General.DefaultSalary = getEnv("DEFAULT_SALARY", cfg.General.DefaultSalary)
	cfg.General.Currency = getEnv("CURRENCY", cfg.General.Currency)

	cfg.Store.Path = getEnv("DB_PATH", cfg.Store.Path)

	cfg.Daemon.Addr = getEnv("DAEMON_ADDR", cfg.Daemon.Addr)
	cfg.Daemon.Interval.Duration = getEnvDuration("DAEMON_INTERVAL", cfg.Daemon.Interval.Duration)
	cfg.Daemon.EventsBuffer = getEnvInt("DAEMON_EVENTS_BUFFER", cfg.Daemon.EventsBuffer)

	cfg.Notify.AMQPURL = getEnv("AMQP_URL", cfg.Notify.AMQPURL)
	cfg.Notify.Exchange = getEnv("AMQP_EXCHANGE", cfg.Notify.Exchange)
	cfg.Notify.RoutingKey = getEnv("AMQP_ROUTING_KEY", cfg.Notify.RoutingKey)
	cfg.Notify.RedisAddr = getEnv("REDIS_ADDR", cfg.Notify.RedisAddr)
	cfg.Notify.RedisChannel = getEnv("REDIS_CHANNEL", cfg.Notify.RedisChannel)

	cfg.Appearance.Theme = getEnv("THEME", cfg.Appearance.Theme)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var problems []string

	if c.General.DefaultPayday < 1 || c.General.DefaultPayday > 31 {
		problems = append(problems, fmt.Sprintf("invalid default payday %d: must be between 1 and 31", c.General.DefaultPayday))
	}
	if c.General.DefaultSalary != "" {
		if d, err := decimal.NewFromString(c.General.DefaultSalary); err != nil || d.IsNegative() {
			problems = append(problems, fmt.Sprintf("invalid default salary %q: must be a non-negative number", c.General.DefaultSalary))
		}
	}

	if c.Daemon.Interval.Duration < time.Second {
		problems = append(problems, fmt.Sprintf("invalid daemon interval %v: must be at least 1 second", c.Daemon.Interval.Duration))
	}
	if c.Daemon.EventsBuffer < 1 {
		problems = append(problems, fmt.Sprintf("invalid events buffer %d: must be at least 1", c.Daemon.EventsBuffer))
	}

	if c.Notify.AMQPURL != "" {
		if u, err := url.Parse(c.Notify.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.Notify.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.Notify.Exchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}
	if c.Notify.RedisAddr != "" && c.Notify.RedisChannel == "" {
		problems = append(problems, "Redis channel cannot be empty when Redis address is provided")
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be 'text' or 'json'", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
