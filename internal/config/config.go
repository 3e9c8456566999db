package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "LEDGER_CONFIG_PATH"

type LedgerConfig struct {
	Env          string `yaml:"env" env:"LEDGER_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	LedgerDB     `yaml:"ledger_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	Metrics      `yaml:"metrics"`
}

type HTTPServer struct {
	Host         string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
	BodyLimitMB  int           `yaml:"body_limit_mb" env-default:"16"`
}

type LedgerDB struct {
	Driver         string `yaml:"driver" env:"LEDGER_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"LEDGER_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path" env-default:"migrations"`
	AutoMigrate    bool   `yaml:"auto_migrate" env-default:"false"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Enabled bool   `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"KAFKA_HOST"`
	Port    string `yaml:"port" env:"KAFKA_PORT"`
	Topic   string `yaml:"topic" env-default:"ledger-events"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" env-default:"true"`
	Path    string `yaml:"path" env-default:"/metrics"`
}

// Load reads the YAML file at path, applies env overrides and checks the result.
func Load(path string) (*LedgerConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	var cfg LedgerConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *LedgerConfig) validate() error {
	switch c.LedgerDB.Driver {
	case "memory":
	case "postgres":
		if c.LedgerDB.Dsn == "" {
			return fmt.Errorf("ledger_db.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown ledger_db.driver %q", c.LedgerDB.Driver)
	}
	if c.KafkaService.Enabled && (c.KafkaService.Host == "" || c.KafkaService.Port == "") {
		return fmt.Errorf("kafka_service.host and port are required when kafka is enabled")
	}
	return nil
}

func (c *LedgerConfig) KafkaBrokers() []string {
	return []string{fmt.Sprintf("%s:%s", c.KafkaService.Host, c.KafkaService.Port)}
}

func MustLoad() *LedgerConfig {
	configPath := os.Getenv(configPathEnv)
	if configPath == "" {
		log.Fatalf("%s was not found\n", configPathEnv)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return cfg
}
