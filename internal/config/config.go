package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Catalog CatalogConfig `envPrefix:"CATALOG_"`
	Kafka   KafkaConfig   `envPrefix:"KAFKA_"`
	Log     LogConfig     `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr  string `env:"ADDR" envDefault:":8080"`
	Pprof bool   `env:"PPROF" envDefault:"false"`

	// CORSPattern is a regexp of origins allowed to call the JSON API.
	CORSPattern string `env:"CORS_PATTERN"`
}

type CatalogConfig struct {
	SourceURL string        `env:"SOURCE_URL" envDefault:"https://fakestoreapi.com/products"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	PageSize  int           `env:"PAGE_SIZE" envDefault:"8"`
	Locale    string        `env:"LOCALE" envDefault:"ru"`
}

type KafkaConfig struct {
	Enabled  bool     `env:"ENABLED" envDefault:"false"`
	Brokers  []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic    string   `env:"TOPIC" envDefault:"catalog-events"`
	ClientID string   `env:"CLIENT_ID" envDefault:"catalog"`
	GroupID  string   `env:"GROUP_ID" envDefault:"catalog-events-tail"`

	// FromOldest makes a new consumer group start at the beginning of the topic.
	FromOldest bool `env:"FROM_OLDEST" envDefault:"false"`
	// ConsumeTimeout bounds the handling of a single event.
	ConsumeTimeout time.Duration `env:"CONSUME_TIMEOUT" envDefault:"30s"`
	// RetryBackoff is the pause before rejoining the group after a failed session.
	RetryBackoff time.Duration `env:"RETRY_BACKOFF" envDefault:"2s"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
