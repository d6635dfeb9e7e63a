package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Seed     SeedConfig     `yaml:"seed"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	// Payment window for a pending booking, minutes.
	ExpirationMinutes int `yaml:"expiration_minutes"`
}

type SeedConfig struct {
	// Units to top the catalog up to at startup. Zero disables seeding.
	TargetUnits int `yaml:"target_units"`
}

type WorkerConfig struct {
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	InitialDelaySeconds  int `yaml:"initial_delay_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Booking.ExpirationMinutes == 0 {
		cfg.Booking.ExpirationMinutes = 15
	}
	if cfg.Worker.SweepIntervalSeconds == 0 {
		cfg.Worker.SweepIntervalSeconds = 60
	}
	if cfg.Worker.InitialDelaySeconds == 0 {
		cfg.Worker.InitialDelaySeconds = 10
	}

	return &cfg, nil
}
