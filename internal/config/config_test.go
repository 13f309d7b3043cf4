package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

const minimalConfig = `
[database]
driver = "memory"

[scheduling]
base_hourly_rate = 150.0

[scheduling.complexity_factors]
"1" = 1.0
"2" = 1.25
"3" = 1.5
"4" = 1.75
"5" = 2.0

[[pricing.profiles]]
size = "Medium"
placement = "Arm"
base_hours = 1.0
size_factor = 1.0
placement_factor = 1.0

[[cancellation.tiers]]
min_notice_hours = 24
fee_percentage = 0.5

[[cancellation.tiers]]
min_notice_hours = 48
fee_percentage = 0.0
deposit_refundable = true
allow_reschedule = true

[[cancellation.tiers]]
min_notice_hours = 0
fee_percentage = 1.0

[[resources]]
name = "Mira"
timezone = "Europe/Berlin"

[resources.working_hours.monday]
open = "10:00"
close = "18:00"
break_start = "13:00"
break_end = "14:00"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, []int{1, 5}, cfg.Scheduling.ComplexityLevelRange)
	assert.Equal(t, 0.20, cfg.Scheduling.DepositPercentage)
	assert.Equal(t, 30, cfg.Scheduling.DefaultSlotStepMinutes)
	assert.Equal(t, "appointments.events", cfg.Kafka.Topic)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("ADMIN_JWT_SECRET", "top-secret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "top-secret", cfg.Auth.AdminJWTSecret)
	assert.Equal(t, "pw", cfg.Database.Password)
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	_, err := Load(writeConfig(t, minimalConfig))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }},
		{"postgres without host", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"deposit above one", func(c *Config) { c.Scheduling.DepositPercentage = 1.5 }},
		{"missing factor", func(c *Config) { delete(c.Scheduling.ComplexityFactors, "3") }},
		{"inverted range", func(c *Config) { c.Scheduling.ComplexityLevelRange = []int{5, 1} }},
		{"no profiles", func(c *Config) { c.Pricing.Profiles = nil }},
		{"no tiers", func(c *Config) { c.Cancellation.Tiers = nil }},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }},
		{"webhook without url", func(c *Config) { c.Webhook.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, minimalConfig))
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestPricingDomain(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	pricing, err := cfg.PricingDomain()
	require.NoError(t, err)

	assert.Equal(t, 1, pricing.MinComplexity)
	assert.Equal(t, 5, pricing.MaxComplexity)
	assert.Equal(t, "1.25", pricing.ComplexityFactors[2].String())
	assert.Equal(t, "0.2", pricing.DepositPercentage.String())
	require.Len(t, pricing.Profiles, 1)
	assert.Equal(t, domain.ProfileKeyParts{Size: "medium", Placement: "arm"}, pricing.Profiles[0].Key())
}

func TestCancellationTiers(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	tiers := cfg.CancellationTiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, 24.0, tiers[0].MinNoticeHours)
	assert.Equal(t, "0.5", tiers[0].FeePercentage.String())
	assert.True(t, tiers[1].DepositRefundable)
}

func TestSeedResources(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	resources, err := cfg.SeedResources()
	require.NoError(t, err)
	require.Len(t, resources, 1)

	monday := resources[0].WorkingHours.ForDay(time.Monday)
	assert.True(t, monday.IsOpen)
	assert.Equal(t, "10:00", monday.OpenTime.String())
	require.True(t, monday.HasBreak())
	assert.Equal(t, "13:00", monday.BreakStart.String())
	assert.False(t, resources[0].WorkingHours.ForDay(time.Sunday).IsOpen)
	assert.Nil(t, resources[0].HourlyRate)

	rate := 180.0
	cfg.Resources[0].HourlyRate = &rate
	resources, err = cfg.SeedResources()
	require.NoError(t, err)
	require.NotNil(t, resources[0].HourlyRate)
	assert.Equal(t, "180", resources[0].HourlyRate.String())

	rate = -1
	_, err = cfg.SeedResources()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	cfg.Resources[0].HourlyRate = nil

	cfg.Resources[0].WorkingHours["funday"] = DayConfig{Open: "10:00", Close: "11:00"}
	_, err = cfg.SeedResources()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)

	_, err = cfg.PricingDomain()
	require.NoError(t, err)
	resources, err := cfg.SeedResources()
	require.NoError(t, err)
	assert.NotEmpty(t, resources)
}
