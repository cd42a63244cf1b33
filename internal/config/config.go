package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "FOOD"

// Config настройки сервиса, читаются из переменных окружения FOOD_*
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8000"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	Store             string `envconfig:"STORE" default:"memory"`
	MongoURI          string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase     string `envconfig:"MONGO_DATABASE" default:"food_delivery"`
	MongoTransactions bool   `envconfig:"MONGO_TRANSACTIONS" default:"false"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"orders_topic"`
}

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Load читает и проверяет конфигурацию
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "process env")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreMemory, StoreMongo:
	default:
		return errors.Errorf("unknown store %q", c.Store)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("jwt secret must be at least 16 bytes")
	}
	if c.JWTTTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	return nil
}
