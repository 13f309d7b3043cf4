package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Kafka         KafkaConfig         `toml:"kafka"`
	Webhook       WebhookConfig       `toml:"webhook"`
	Notifications NotificationsConfig `toml:"notifications"`
	Auth          AuthConfig          `toml:"auth"`
	Scheduling    SchedulingConfig    `toml:"scheduling"`
	Pricing       PricingConfig       `toml:"pricing"`
	Cancellation  CancellationConfig  `toml:"cancellation"`
	Resources     []ResourceConfig    `toml:"resources"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | memory
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig параметры Redis для распределенной блокировки мастеров.
// Если выключен, используется блокировка внутри процесса.
type RedisConfig struct {
	Enabled           bool   `toml:"enabled"`
	Addr              string `toml:"addr"`
	Password          string `toml:"password"`
	DB                int    `toml:"db"`
	LockPrefix        string `toml:"lock_prefix"`
	LockTTL           int    `toml:"lock_ttl_ms"`
	LockRetryInterval int    `toml:"lock_retry_interval_ms"`
}

// KafkaConfig параметры публикации событий
type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout int      `toml:"write_timeout"` // секунды
}

// WebhookConfig параметры вебхука для событий
type WebhookConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Secret  string `toml:"secret"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationsConfig параметры асинхронной рассылки
type NotificationsConfig struct {
	BufferSize  int `toml:"buffer_size"`
	Workers     int `toml:"workers"`
	SendTimeout int `toml:"send_timeout"` // секунды
}

// AuthConfig параметры авторизации администратора
type AuthConfig struct {
	AdminJWTSecret string `toml:"admin_jwt_secret"`
}

// SchedulingConfig бизнес-параметры записи
type SchedulingConfig struct {
	DepositPercentage       float64            `toml:"deposit_percentage"`
	BaseHourlyRate          float64            `toml:"base_hourly_rate"`
	ComplexityLevelRange    []int              `toml:"complexity_level_range"`
	ComplexityFactors       map[string]float64 `toml:"complexity_factors"`
	MinBookingNoticeMinutes int                `toml:"min_booking_notice_minutes"`
	DefaultSlotStepMinutes  int                `toml:"default_slot_step_minutes"`
	LockStripes             int                `toml:"lock_stripes"`
	LockTimeout             int                `toml:"lock_timeout_ms"`
	ResourceCacheSize       int                `toml:"resource_cache_size"`
}

// PricingConfig профили размер/расположение
type PricingConfig struct {
	Profiles []ProfileConfig `toml:"profiles"`
}

// ProfileConfig один профиль размер/расположение
type ProfileConfig struct {
	Size            string  `toml:"size"`
	Placement       string  `toml:"placement"`
	BaseHours       float64 `toml:"base_hours"`
	SizeFactor      float64 `toml:"size_factor"`
	PlacementFactor float64 `toml:"placement_factor"`
}

// CancellationConfig уровни политики отмены
type CancellationConfig struct {
	Tiers []TierConfig `toml:"tiers"`
}

// TierConfig один уровень политики отмены
type TierConfig struct {
	MinNoticeHours    float64 `toml:"min_notice_hours"`
	FeePercentage     float64 `toml:"fee_percentage"`
	DepositRefundable bool    `toml:"deposit_refundable"`
	AllowReschedule   bool    `toml:"allow_reschedule"`
}

// ResourceConfig мастер, создаваемый при старте, если хранилище пустое
type ResourceConfig struct {
	Name         string               `toml:"name"`
	Timezone     string               `toml:"timezone"`
	HourlyRate   *float64             `toml:"hourly_rate"` // пусто = base_hourly_rate
	WorkingHours map[string]DayConfig `toml:"working_hours"` // monday..sunday
}

// DayConfig рабочее окно дня в формате HH:MM
type DayConfig struct {
	Open       string `toml:"open"`
	Close      string `toml:"close"`
	BreakStart string `toml:"break_start"`
	BreakEnd   string `toml:"break_end"`
}

// Load читает конфигурацию из TOML файла, затем применяет значения по умолчанию
// и переопределения из окружения (.env подхватывается, если есть)
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "ink_booking_service"
	}

	if c.Redis.LockPrefix == "" {
		c.Redis.LockPrefix = "ink:lock:resource:"
	}
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = 5000
	}
	if c.Redis.LockRetryInterval == 0 {
		c.Redis.LockRetryInterval = 20
	}

	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "appointments.events"
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 5
	}
	if c.Webhook.Timeout == 0 {
		c.Webhook.Timeout = 5
	}

	if c.Notifications.BufferSize == 0 {
		c.Notifications.BufferSize = 256
	}
	if c.Notifications.Workers == 0 {
		c.Notifications.Workers = 2
	}
	if c.Notifications.SendTimeout == 0 {
		c.Notifications.SendTimeout = 5
	}

	if c.Scheduling.DepositPercentage == 0 {
		c.Scheduling.DepositPercentage = 0.20
	}
	if len(c.Scheduling.ComplexityLevelRange) == 0 {
		c.Scheduling.ComplexityLevelRange = []int{1, 5}
	}
	if c.Scheduling.MinBookingNoticeMinutes == 0 {
		c.Scheduling.MinBookingNoticeMinutes = 60
	}
	if c.Scheduling.DefaultSlotStepMinutes == 0 {
		c.Scheduling.DefaultSlotStepMinutes = 30
	}
	if c.Scheduling.LockStripes == 0 {
		c.Scheduling.LockStripes = 256
	}
	if c.Scheduling.LockTimeout == 0 {
		c.Scheduling.LockTimeout = 3000
	}
	if c.Scheduling.ResourceCacheSize == 0 {
		c.Scheduling.ResourceCacheSize = 256
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok && v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok && v != "" {
		brokers := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
		c.Kafka.Enabled = len(brokers) > 0
	}
	if v, ok := os.LookupEnv("ADMIN_JWT_SECRET"); ok {
		c.Auth.AdminJWTSecret = v
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.HTTPPort = port
	}
	return nil
}
