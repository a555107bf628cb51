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
	Services ServicesConfig `yaml:"services"`
	Booking  BookingConfig  `yaml:"booking"`
	Payment  PaymentConfig  `yaml:"payment"`
	Worker   WorkerConfig   `yaml:"worker"`
	Env      string         `yaml:"env"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
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
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// ServicesConfig holds base URLs for split deployment. When a URL is empty
// the process wires the corresponding service in-process instead of over HTTP.
type ServicesConfig struct {
	UserURL         string `yaml:"user_url"`
	FlightURL       string `yaml:"flight_url"`
	HotelURL        string `yaml:"hotel_url"`
	BookingURL      string `yaml:"booking_url"`
	NotificationURL string `yaml:"notification_url"`
}

type BookingConfig struct {
	RemoteCallTimeoutSeconds int `yaml:"remote_call_timeout_seconds"`
	AvailabilityCacheTTL     int `yaml:"availability_cache_ttl_seconds"`
	CallbackDedupeTTLMinutes int `yaml:"callback_dedupe_ttl_minutes"`
	NotifyRetries            int `yaml:"notify_retries"`
}

type PaymentConfig struct {
	GatewayTimeoutSeconds int     `yaml:"gateway_timeout_seconds"`
	GatewayLatencyMillis  int     `yaml:"gateway_latency_millis"`
	GatewaySuccessRate    float64 `yaml:"gateway_success_rate"`
	CallbackRetries       int     `yaml:"callback_retries"`
	CallbackBackoffMillis int     `yaml:"callback_backoff_millis"`
}

type WorkerConfig struct {
	ReconcileSweepMinutes    int `yaml:"reconcile_sweep_minutes"`
	ReconcileLookbackMinutes int `yaml:"reconcile_lookback_minutes"`
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

	return &cfg, nil
}
