package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig describes the service configuration.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	CompaniesFile string `envconfig:"COMPANIES_FILE" default:"companies.json"`

	POIT struct {
		Script   string        `envconfig:"POIT_SCRIPT" default:"scripts/poit-scraper.js"`
		NodeBin  string        `envconfig:"POIT_NODE_BIN" default:"node"`
		Timeout  time.Duration `envconfig:"POIT_TIMEOUT" default:"60s"`
		Headless bool          `envconfig:"POIT_HEADLESS" default:"true"`
	} `envconfig:""`

	Poll struct {
		Interval time.Duration `envconfig:"CHECK_INTERVAL" default:"60m"`
		Workers  int           `envconfig:"POLL_WORKERS" default:"1"`
		DaysBack int           `envconfig:"POLL_DAYS_BACK" default:"1"`
		DedupTTL time.Duration `envconfig:"DEDUP_TTL" default:"0"`
	} `envconfig:""`

	PGDSN     string `envconfig:"PG_DSN"`
	RedisAddr string `envconfig:"REDIS_ADDR"`

	RabbitURL string `envconfig:"RABBITMQ_URL"`
	Queues    struct {
		Events string `envconfig:"EVENTS_QUEUE_KEY" default:"bevakning_events"`
	} `envconfig:""`
}

// Load reads the config from the environment, honoring a local .env file.
func Load() AppConfig {
	_ = godotenv.Load()
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}
	// scheduler never polls more often than every five minutes
	if cfg.Poll.Interval < 5*time.Minute {
		cfg.Poll.Interval = 5 * time.Minute
	}
	return cfg
}
