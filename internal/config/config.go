package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"hotel/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Booking    BookingConfig    `yaml:"booking"`
	Billing    BillingConfig    `yaml:"billing"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Events     EventsConfig     `yaml:"events"`
	Exports    ExportConfig     `yaml:"exports"`
	SeedPath   string           `yaml:"seed_path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

type DatabaseConfig struct {
	Driver       string         `yaml:"driver"`
	Path         string         `yaml:"path"`
	MaxOpenConns int            `yaml:"max_open_conns"`
	MaxIdleConns int            `yaml:"max_idle_conns"`
	BusyTimeout  time.Duration  `yaml:"busy_timeout"`
	Postgres     PostgresConfig `yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN builds a pgx connection URL.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

const (
	TransitionsStrict     = "strict"
	TransitionsPermissive = "permissive"
)

type BookingConfig struct {
	// Transitions is "strict", "permissive" or empty when Custom is used.
	Transitions    string              `yaml:"transitions"`
	Custom         map[string][]string `yaml:"custom_transitions"`
	MaxDays        int                 `yaml:"max_days"`
	ServiceEditors []string            `yaml:"service_editors"`
}

const (
	DayCountInclusive = "inclusive"
	DayCountNights    = "nights"
	DayCountFlat      = "flat"
)

type BillingConfig struct {
	DayCount string `yaml:"day_count"`
	Currency string `yaml:"currency"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type EventsConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required")
		}
	case DriverPostgres:
		if c.Database.Postgres.Host == "" || c.Database.Postgres.DBName == "" {
			return errors.New("postgres host and dbname are required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Booking.Transitions {
	case TransitionsStrict, TransitionsPermissive:
	case "":
		if len(c.Booking.Custom) == 0 {
			return errors.New("booking.custom_transitions is required when booking.transitions is empty")
		}
		if err := ValidateTransitions(c.Booking.Custom); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown booking.transitions %q", c.Booking.Transitions)
	}

	switch c.Billing.DayCount {
	case DayCountInclusive, DayCountNights, DayCountFlat:
	default:
		return fmt.Errorf("unknown billing.day_count %q", c.Billing.DayCount)
	}

	for _, r := range c.Booking.ServiceEditors {
		if models.ParseRole(r) != models.Role(strings.ToLower(r)) {
			return fmt.Errorf("unknown role %q in booking.service_editors", r)
		}
	}

	if c.Booking.MaxDays < 1 {
		return errors.New("booking.max_days must be positive")
	}
	return nil
}

// ValidateTransitions checks that every status named in a custom table exists.
func ValidateTransitions(table map[string][]string) error {
	for from, targets := range table {
		if _, ok := models.LookupStatus(from); !ok {
			return fmt.Errorf("unknown status %q in transition table", from)
		}
		for _, to := range targets {
			if _, ok := models.LookupStatus(to); !ok {
				return fmt.Errorf("unknown status %q in transition table", to)
			}
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "hotel"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = 5 * time.Second
	}
	if c.Database.Postgres.Port == 0 {
		c.Database.Postgres.Port = 5432
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = "disable"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = time.Duration(models.DefaultSessionTTL) * time.Second
	}
	if c.Booking.Transitions == "" && len(c.Booking.Custom) == 0 {
		c.Booking.Transitions = TransitionsStrict
	}
	if c.Booking.MaxDays == 0 {
		c.Booking.MaxDays = models.DefaultMaxBookingDays
	}
	if len(c.Booking.ServiceEditors) == 0 {
		c.Booking.ServiceEditors = []string{string(models.RoleAdmin)}
	}
	if c.Billing.DayCount == "" {
		c.Billing.DayCount = DayCountInclusive
	}
	if c.Billing.Currency == "" {
		c.Billing.Currency = models.DefaultCurrency
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Events.Kafka.Topic == "" {
		c.Events.Kafka.Topic = "hotel.bookings"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}
}
