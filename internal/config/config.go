package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Cron      CronConfig      `mapstructure:"cron"`
	Health    HealthConfig    `mapstructure:"health"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret"`
	Disabled bool   `mapstructure:"disabled"`
}

type CronConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Fallback     string `mapstructure:"fallback"`
	HealthUpdate string `mapstructure:"health_update"`
}

// HealthConfig holds the staleness bands used to classify each ingestion
// channel. A channel is healthy below HealthyWithin, degraded below
// DegradedWithin and failing beyond that.
type HealthConfig struct {
	WebhookHealthyWithin  time.Duration `mapstructure:"webhook_healthy_within"`
	WebhookDegradedWithin time.Duration `mapstructure:"webhook_degraded_within"`
	PollingHealthyWithin  time.Duration `mapstructure:"polling_healthy_within"`
	PollingDegradedWithin time.Duration `mapstructure:"polling_degraded_within"`
}

// FallbackConfig drives demotion to aggressive polling and restoration back
// to webhook-driven ingestion. StaleAfter must stay above RecoverWithin so
// the two transitions never apply to the same record in one pass.
type FallbackConfig struct {
	StaleAfter                    time.Duration `mapstructure:"stale_after"`
	RecoverWithin                 time.Duration `mapstructure:"recover_within"`
	AggressivePollIntervalMinutes int           `mapstructure:"aggressive_poll_interval_minutes"`
	DefaultPollIntervalMinutes    int           `mapstructure:"default_poll_interval_minutes"`
}

type ProvidersConfig struct {
	Telephony ProviderEndpointConfig `mapstructure:"telephony"`
	Calendar  ProviderEndpointConfig `mapstructure:"calendar"`
}

type ProviderEndpointConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.disabled", false)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.fallback", "@every 5m")
	v.SetDefault("cron.health_update", "@every 5m")
	v.SetDefault("health.webhook_healthy_within", "10m")
	v.SetDefault("health.webhook_degraded_within", "30m")
	v.SetDefault("health.polling_healthy_within", "20m")
	v.SetDefault("health.polling_degraded_within", "60m")
	v.SetDefault("fallback.stale_after", "30m")
	v.SetDefault("fallback.recover_within", "10m")
	v.SetDefault("fallback.aggressive_poll_interval_minutes", 5)
	v.SetDefault("fallback.default_poll_interval_minutes", 15)
	v.SetDefault("providers.telephony.base_url", "")
	v.SetDefault("providers.telephony.timeout", "30s")
	v.SetDefault("providers.calendar.base_url", "")
	v.SetDefault("providers.calendar.timeout", "30s")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// WebhookBands returns the webhook channel thresholds with defaults applied
// for zero or inverted values.
func (h HealthConfig) WebhookBands() (time.Duration, time.Duration) {
	healthy, degraded := h.WebhookHealthyWithin, h.WebhookDegradedWithin
	if healthy <= 0 {
		healthy = 10 * time.Minute
	}
	if degraded <= healthy {
		degraded = 30 * time.Minute
	}
	return healthy, degraded
}

// PollingBands returns the polling channel thresholds with defaults applied.
func (h HealthConfig) PollingBands() (time.Duration, time.Duration) {
	healthy, degraded := h.PollingHealthyWithin, h.PollingDegradedWithin
	if healthy <= 0 {
		healthy = 20 * time.Minute
	}
	if degraded <= healthy {
		degraded = 60 * time.Minute
	}
	return healthy, degraded
}
