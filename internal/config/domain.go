package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/pkg/types"
)

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// PricingDomain переводит параметры цены в доменную конфигурацию калькулятора
func (c *Config) PricingDomain() (domain.PricingConfig, error) {
	factors := make(map[int]decimal.Decimal, len(c.Scheduling.ComplexityFactors))
	for raw, factor := range c.Scheduling.ComplexityFactors {
		level, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return domain.PricingConfig{}, fmt.Errorf("%w: complexity level %q: %v", ErrInvalidConfig, raw, err)
		}
		factors[level] = decimal.NewFromFloat(factor)
	}

	profiles := make([]domain.SizeComplexityProfile, 0, len(c.Pricing.Profiles))
	for _, p := range c.Pricing.Profiles {
		profiles = append(profiles, domain.SizeComplexityProfile{
			Size:            p.Size,
			Placement:       p.Placement,
			BaseHours:       decimal.NewFromFloat(p.BaseHours),
			SizeFactor:      decimal.NewFromFloat(p.SizeFactor),
			PlacementFactor: decimal.NewFromFloat(p.PlacementFactor),
		})
	}

	return domain.PricingConfig{
		Profiles:          profiles,
		ComplexityFactors: factors,
		MinComplexity:     c.Scheduling.ComplexityLevelRange[0],
		MaxComplexity:     c.Scheduling.ComplexityLevelRange[1],
		BaseHourlyRate:    decimal.NewFromFloat(c.Scheduling.BaseHourlyRate),
		DepositPercentage: decimal.NewFromFloat(c.Scheduling.DepositPercentage),
	}, nil
}

// CancellationTiers переводит уровни политики отмены в доменные.
// Сортировку и проверку выполняет policy.NewEvaluator.
func (c *Config) CancellationTiers() []domain.CancellationPolicyTier {
	tiers := make([]domain.CancellationPolicyTier, 0, len(c.Cancellation.Tiers))
	for _, t := range c.Cancellation.Tiers {
		tiers = append(tiers, domain.CancellationPolicyTier{
			MinNoticeHours:    t.MinNoticeHours,
			FeePercentage:     decimal.NewFromFloat(t.FeePercentage),
			DepositRefundable: t.DepositRefundable,
			AllowReschedule:   t.AllowReschedule,
		})
	}
	return tiers
}

// SeedResources возвращает мастеров из секции [[resources]]
func (c *Config) SeedResources() ([]*domain.Resource, error) {
	resources := make([]*domain.Resource, 0, len(c.Resources))
	for i, rc := range c.Resources {
		if rc.Name == "" {
			return nil, fmt.Errorf("%w: resources[%d]: name is required", ErrInvalidConfig, i)
		}
		if rc.Timezone != "" {
			if _, err := time.LoadLocation(rc.Timezone); err != nil {
				return nil, fmt.Errorf("%w: resources[%d]: timezone %q: %v", ErrInvalidConfig, i, rc.Timezone, err)
			}
		}

		var hourlyRate *decimal.Decimal
		if rc.HourlyRate != nil {
			if *rc.HourlyRate < 0 || math.IsInf(*rc.HourlyRate, 0) || math.IsNaN(*rc.HourlyRate) {
				return nil, fmt.Errorf("%w: resources[%d]: hourly_rate must be non-negative", ErrInvalidConfig, i)
			}
			rate := decimal.NewFromFloat(*rc.HourlyRate)
			hourlyRate = &rate
		}

		var hours domain.WorkingHours
		for name, day := range rc.WorkingHours {
			weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return nil, fmt.Errorf("%w: resources[%d]: unknown weekday %q", ErrInvalidConfig, i, name)
			}
			schedule, err := day.toDomain()
			if err != nil {
				return nil, fmt.Errorf("%w: resources[%d].%s: %v", ErrInvalidConfig, i, name, err)
			}
			hours.Set(weekday, schedule)
		}

		resources = append(resources, &domain.Resource{
			Name:         rc.Name,
			Timezone:     rc.Timezone,
			WorkingHours: hours,
			HourlyRate:   hourlyRate,
			Active:       true,
		})
	}
	return resources, nil
}

func (d DayConfig) toDomain() (domain.DaySchedule, error) {
	open, err := types.NewTimeStringFromString(d.Open)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("open %q: %w", d.Open, err)
	}
	closeAt, err := types.NewTimeStringFromString(d.Close)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("close %q: %w", d.Close, err)
	}

	schedule := domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: closeAt}
	if d.BreakStart != "" || d.BreakEnd != "" {
		start, err := types.NewTimeStringFromString(d.BreakStart)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("break_start %q: %w", d.BreakStart, err)
		}
		end, err := types.NewTimeStringFromString(d.BreakEnd)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("break_end %q: %w", d.BreakEnd, err)
		}
		schedule.BreakStart = &start
		schedule.BreakEnd = &end
	}
	return schedule, nil
}
