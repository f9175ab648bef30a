package config

import (
	"os"
	"time"

	errorsUtils "github.com/Egor213/ExceptionSieve/pkg/errors"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		App            `yaml:"app"`
		Log            `yaml:"log"`
		PG             `yaml:"postgres"`
		GRPC           `yaml:"grpc"`
		HTTP           `yaml:"http"`
		Prometheus     `yaml:"prometheus"`
		Kafka          `yaml:"kafka"`
		Ignore         `yaml:"ignore_list"`
		Dedup          `yaml:"dedup"`
		RuleEngine     `yaml:"rule_engine"`
		AIDenoise      `yaml:"ai_denoise"`
		LLM            `yaml:"llm"`
		Ticket         `yaml:"ticket"`
		Responsibility `yaml:"responsibility"`
		Notification   `yaml:"notification"`
		Trend          `yaml:"trend"`
	}

	App struct {
		Name        string `yaml:"name" env-required:"true"`
		Version     string `yaml:"version" env-required:"true"`
		Environment string `yaml:"environment" env:"APP_ENV" env-default:"dev"`
	}

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	}

	PG struct {
		MaxPoolSize       int           `env-required:"true" env:"MAX_POOL_SIZE" yaml:"max_pool_size"`
		MinPoolSize       int           `yaml:"min_pool_size" env-default:"1"`
		HealthCheckPeriod time.Duration `yaml:"health_check_period" env-default:"30s"`
		MigrationsPath    string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
		URL               string        `env-required:"true" env:"PG_URL"`
	}

	GRPC struct {
		Port string `env-required:"true" yaml:"port" env:"GRPC_PORT"`
	}

	HTTP struct {
		Port            string        `env-required:"true" yaml:"port" env:"HTTP_PORT"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
		MaxInFlight     int64         `yaml:"max_in_flight" env-default:"256"`
	}

	Prometheus struct {
		Port string `env-required:"true" yaml:"port" env:"PROMETHEUS_PORT"`
	}

	Kafka struct {
		Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
		Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"exception-sieve.events"`
	}

	Ignore struct {
		Enabled         bool     `yaml:"enabled" env-default:"true"`
		AppNames        []string `yaml:"app_names"`
		Environments    []string `yaml:"environments"`
		ExceptionTypes  []string `yaml:"exception_types"`
		Packages        []string `yaml:"packages"`
		ErrorLocations  []string `yaml:"error_locations"`
		MessageKeywords []string `yaml:"message_keywords"`
		HTTPStatusCodes []int    `yaml:"http_status_codes"`
	}

	Dedup struct {
		Enabled    bool          `yaml:"enabled" env-default:"true"`
		Window     time.Duration `yaml:"window" env-default:"2m"`
		MaxEntries uint64        `yaml:"max_entries" env-default:"10000"`
	}

	FrequencyLimit struct {
		Enabled    bool          `yaml:"enabled" env-default:"true"`
		Window     time.Duration `yaml:"window" env-default:"5m"`
		MaxCount   int64         `yaml:"max_count" env-default:"10"`
		MaxEntries uint64        `yaml:"max_entries" env-default:"10000"`
		Priority   int           `yaml:"priority" env-default:"10"`
	}

	TimeWindow struct {
		Enabled           bool     `yaml:"enabled" env-default:"false"`
		QuietHours        string   `yaml:"quiet_hours" env-default:"22-8"`
		AllowedSeverities []string `yaml:"allowed_severities" env-default:"P0"`
		Priority          int      `yaml:"priority" env-default:"20"`
	}

	EnvironmentRule struct {
		Enabled              bool     `yaml:"enabled" env-default:"false"`
		TestFilterSeverities []string `yaml:"test_filter_severities" env-default:"P3,P4"`
		ProdFilterSeverities []string `yaml:"prod_filter_severities"`
		Priority             int      `yaml:"priority" env-default:"30"`
	}

	RuleEngine struct {
		Enabled         bool `yaml:"enabled" env-default:"true"`
		FrequencyLimit  `yaml:"frequency_limit"`
		TimeWindow      `yaml:"time_window"`
		EnvironmentRule `yaml:"environment"`
	}

	AIDenoise struct {
		Enabled         bool          `yaml:"enabled" env:"AI_DENOISE_ENABLED" env-default:"false"`
		Lookback        time.Duration `yaml:"lookback" env-default:"2m"`
		MaxRecords      uint64        `yaml:"max_records" env-default:"20"`
		CacheTTL        time.Duration `yaml:"cache_ttl" env-default:"5m"`
		CacheMaxEntries uint64        `yaml:"cache_max_entries" env-default:"10000"`
	}

	LLM struct {
		BaseURL         string        `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.openai.com/v1"`
		APIKey          string        `yaml:"api_key" env:"LLM_API_KEY"`
		Model           string        `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
		Temperature     float64       `yaml:"temperature" env-default:"0.2"`
		MaxTokens       int           `yaml:"max_tokens" env-default:"512"`
		Timeout         time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"60s"`
		RetryCount      int           `yaml:"retry_count" env-default:"1"`
		BreakerFailures uint32        `yaml:"breaker_failures" env-default:"5"`
		BreakerTimeout  time.Duration `yaml:"breaker_timeout" env-default:"30s"`
	}

	Ticket struct {
		Enabled  bool   `yaml:"enabled" env-default:"true"`
		Reporter string `yaml:"reporter" env-default:"exception-sieve"`
	}

	Responsibility struct {
		DefaultOwner  string            `yaml:"default_owner" env-default:"admin"`
		ServiceOwners map[string]string `yaml:"service_owners"`
		ChatIDs       map[string]string `yaml:"chat_ids"`
	}

	Webhook struct {
		Enabled            bool          `yaml:"enabled" env:"WEBHOOK_ENABLED" env-default:"false"`
		URL                string        `yaml:"url" env:"WEBHOOK_URL"`
		Secret             string        `yaml:"secret" env:"WEBHOOK_SECRET"`
		AtUserIDs          []string      `yaml:"at_user_ids"`
		MinInterval        time.Duration `yaml:"min_interval" env-default:"60s"`
		MaxMessagesPerHour int           `yaml:"max_messages_per_hour" env-default:"50"`
		Timeout            time.Duration `yaml:"timeout" env-default:"10s"`
		RetryCount         int           `yaml:"retry_count" env-default:"3"`
	}

	Notification struct {
		Enabled      bool          `yaml:"enabled" env-default:"true"`
		DispatchWait time.Duration `yaml:"dispatch_timeout" env-default:"15s"`
		Webhook      `yaml:"webhook"`
	}

	Trend struct {
		Enabled      bool   `yaml:"enabled" env-default:"true"`
		HourlySpec   string `yaml:"hourly_spec" env-default:"5 * * * *"`
		DailySpec    string `yaml:"daily_spec" env-default:"0 1 * * *"`
		WeeklySpec   string `yaml:"weekly_spec" env-default:"0 2 * * 0"`
		SLASweepSpec string `yaml:"sla_sweep_spec" env-default:"*/10 * * * *"`
		AnalysisDays int    `yaml:"analysis_days" env-default:"7"`

		JobTimeout time.Duration `yaml:"job_timeout" env-default:"30m"`
		Timezone   string        `yaml:"timezone" env:"TREND_TIMEZONE" env-default:"Local"`
	}
)

const ENV_PATH = "infra/.env"

func New() (*Config, error) {
	if err := godotenv.Load(ENV_PATH); err != nil {
		log.WithField("path", ENV_PATH).Debug("No .env file loaded")
	}

	cfg := &Config{}

	pathToConfig, ok := os.LookupEnv("APP_CONFIG_PATH")
	if !ok || pathToConfig == "" {
		log.WithField("env_var", "APP_CONFIG_PATH").
			Info("Config path is not set, using default")
		pathToConfig = "infra/config.yaml"
	}

	if err := cleanenv.ReadConfig(pathToConfig, cfg); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	if err := cleanenv.UpdateEnv(cfg); err != nil {
		return nil, errorsUtils.WrapPathErr(err)
	}

	return cfg, nil
}
