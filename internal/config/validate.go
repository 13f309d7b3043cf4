package config

import (
	"fmt"
	"math"
	"strconv"
)

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: database.driver=%q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return fmt.Errorf("%w: webhook.url is required when webhook is enabled", ErrInvalidConfig)
	}

	if err := c.validateScheduling(); err != nil {
		return err
	}

	if len(c.Pricing.Profiles) == 0 {
		return fmt.Errorf("%w: at least one [[pricing.profiles]] entry is required", ErrInvalidConfig)
	}
	for i, p := range c.Pricing.Profiles {
		if p.Size == "" || p.Placement == "" {
			return fmt.Errorf("%w: pricing.profiles[%d]: size and placement are required", ErrInvalidConfig, i)
		}
		if p.BaseHours <= 0 || p.SizeFactor <= 0 || p.PlacementFactor <= 0 {
			return fmt.Errorf("%w: pricing.profiles[%d]: hours and factors must be positive", ErrInvalidConfig, i)
		}
	}

	if len(c.Cancellation.Tiers) == 0 {
		return fmt.Errorf("%w: at least one [[cancellation.tiers]] entry is required", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) validateScheduling() error {
	s := c.Scheduling

	if s.DepositPercentage < 0 || s.DepositPercentage > 1 {
		return fmt.Errorf("%w: scheduling.deposit_percentage=%v must be in [0, 1]", ErrInvalidConfig, s.DepositPercentage)
	}
	if s.BaseHourlyRate <= 0 || math.IsInf(s.BaseHourlyRate, 0) || math.IsNaN(s.BaseHourlyRate) {
		return fmt.Errorf("%w: scheduling.base_hourly_rate must be positive", ErrInvalidConfig)
	}
	if len(s.ComplexityLevelRange) != 2 || s.ComplexityLevelRange[0] > s.ComplexityLevelRange[1] {
		return fmt.Errorf("%w: scheduling.complexity_level_range=%v must be [min, max]", ErrInvalidConfig, s.ComplexityLevelRange)
	}
	for level := s.ComplexityLevelRange[0]; level <= s.ComplexityLevelRange[1]; level++ {
		factor, ok := s.ComplexityFactors[strconv.Itoa(level)]
		if !ok {
			return fmt.Errorf("%w: scheduling.complexity_factors has no factor for level %d", ErrInvalidConfig, level)
		}
		if factor <= 0 {
			return fmt.Errorf("%w: scheduling.complexity_factors[%d] must be positive", ErrInvalidConfig, level)
		}
	}
	if s.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: scheduling.min_booking_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if s.DefaultSlotStepMinutes <= 0 {
		return fmt.Errorf("%w: scheduling.default_slot_step_minutes must be positive", ErrInvalidConfig)
	}
	return nil
}
