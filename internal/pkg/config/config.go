package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config carries everything a service binary needs to start. Values come from
// an optional YAML file (CONFIG_FILE) with environment variables taking
// precedence, so a single image can run in compose, k8s or bare local dev.
type Config struct {
	App struct {
		Env string `yaml:"env"`
	} `yaml:"app"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Kafka struct {
			Brokers          []string `yaml:"brokers"`
			OrderEventsTopic string   `yaml:"orderEventsTopic"`
		} `yaml:"kafka"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		MySQL struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
	} `yaml:"infra"`

	Services struct {
		CatalogURL   string `yaml:"catalogUrl"`
		InventoryURL string `yaml:"inventoryUrl"`
		PaymentURL   string `yaml:"paymentUrl"`
	} `yaml:"services"`

	Payment struct {
		// Charges above this amount are rejected by the payment service.
		MaxAmount float64 `yaml:"maxAmount"`
	} `yaml:"payment"`
}

// Load reads the YAML file named by CONFIG_FILE (if any) and applies
// environment overrides on top of built-in defaults.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Env = "dev"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Kafka.OrderEventsTopic = "order-events"
	cfg.Services.CatalogURL = "http://localhost:8082"
	cfg.Services.InventoryURL = "http://localhost:8083"
	cfg.Services.PaymentURL = "http://localhost:8084"
	cfg.Payment.MaxAmount = 10000
	return cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.App.Env, "APP_ENV")
	setString(&cfg.Infra.Jaeger.Endpoint, "JAEGER_ENDPOINT")
	setString(&cfg.Infra.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Infra.MySQL.DSN, "MYSQL_DSN")
	setString(&cfg.Infra.Kafka.OrderEventsTopic, "ORDER_EVENTS_TOPIC")
	setString(&cfg.Services.CatalogURL, "CATALOG_SERVICE_URL")
	setString(&cfg.Services.InventoryURL, "INVENTORY_SERVICE_URL")
	setString(&cfg.Services.PaymentURL, "PAYMENT_SERVICE_URL")

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Infra.Kafka.Brokers = brokers
	}
	if v, ok := os.LookupEnv("PAYMENT_MAX_AMOUNT"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Payment.MaxAmount = f
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
