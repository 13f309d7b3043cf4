package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

var minutesPerHour = decimal.NewFromInt(60)

// EstimateRequest входные данные для расчета стоимости сеанса
type EstimateRequest struct {
	Size             string
	Placement        string
	ComplexityLevel  int
	CustomHourlyRate *decimal.Decimal // ставка мастера, если отличается от базовой
}

// Calculator рассчитывает длительность, стоимость и депозит сеанса.
// После создания не меняется, поэтому безопасен для конкурентного использования.
type Calculator struct {
	profiles          map[domain.ProfileKeyParts]domain.SizeComplexityProfile
	complexityFactors map[int]decimal.Decimal
	minLevel          int
	maxLevel          int
	baseHourlyRate    decimal.Decimal
	depositPercentage decimal.Decimal
}

// NewCalculator создает калькулятор и валидирует конфигурацию
func NewCalculator(cfg domain.PricingConfig) (*Calculator, error) {
	if cfg.MinComplexity > cfg.MaxComplexity {
		return nil, fmt.Errorf("%w: complexity range [%d, %d]", ErrInvalidConfig, cfg.MinComplexity, cfg.MaxComplexity)
	}
	if cfg.BaseHourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: base hourly rate is negative", ErrInvalidConfig)
	}
	if cfg.DepositPercentage.IsNegative() || cfg.DepositPercentage.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: deposit percentage %s not in [0, 1]", ErrInvalidConfig, cfg.DepositPercentage)
	}

	factors := make(map[int]decimal.Decimal, cfg.MaxComplexity-cfg.MinComplexity+1)
	for level := cfg.MinComplexity; level <= cfg.MaxComplexity; level++ {
		factor, ok := cfg.ComplexityFactors[level]
		if !ok {
			return nil, fmt.Errorf("%w: missing complexity factor for level %d", ErrInvalidConfig, level)
		}
		if !factor.IsPositive() {
			return nil, fmt.Errorf("%w: complexity factor for level %d must be positive", ErrInvalidConfig, level)
		}
		factors[level] = factor
	}

	profiles := make(map[domain.ProfileKeyParts]domain.SizeComplexityProfile, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		if strings.TrimSpace(p.Size) == "" || strings.TrimSpace(p.Placement) == "" {
			return nil, fmt.Errorf("%w: profile with empty size or placement", ErrInvalidConfig)
		}
		if !p.BaseHours.IsPositive() || !p.SizeFactor.IsPositive() || !p.PlacementFactor.IsPositive() {
			return nil, fmt.Errorf("%w: profile %s/%s has non-positive factors", ErrInvalidConfig, p.Size, p.Placement)
		}
		if _, exists := profiles[p.Key()]; exists {
			return nil, fmt.Errorf("%w: duplicate profile %s/%s", ErrInvalidConfig, p.Size, p.Placement)
		}
		profiles[p.Key()] = p
	}

	return &Calculator{
		profiles:          profiles,
		complexityFactors: factors,
		minLevel:          cfg.MinComplexity,
		maxLevel:          cfg.MaxComplexity,
		baseHourlyRate:    cfg.BaseHourlyRate,
		depositPercentage: cfg.DepositPercentage,
	}, nil
}

// Estimate рассчитывает часы, цену и депозит.
// Уровень сложности вне диапазона приводится к ближайшей границе,
// в ответе возвращается фактически использованный уровень.
func (c *Calculator) Estimate(req EstimateRequest) (*domain.Estimate, error) {
	if req.CustomHourlyRate != nil && req.CustomHourlyRate.IsNegative() {
		return nil, fmt.Errorf("%w: custom hourly rate is negative", ErrInvalidInput)
	}

	profile, ok := c.profiles[domain.ProfileKey(req.Size, req.Placement)]
	if !ok {
		return nil, fmt.Errorf("%w: size=%q placement=%q", ErrUnknownProfile, req.Size, req.Placement)
	}

	level, clamped := c.clampLevel(req.ComplexityLevel)

	hours := profile.BaseHours.
		Mul(profile.SizeFactor).
		Mul(profile.PlacementFactor).
		Mul(c.complexityFactors[level])

	rate := c.baseHourlyRate
	if req.CustomHourlyRate != nil {
		rate = *req.CustomHourlyRate
	}

	total := round2(hours.Mul(rate))
	deposit := round2(total.Mul(c.depositPercentage))

	return &domain.Estimate{
		Size:              profile.Size,
		Placement:         profile.Placement,
		ComplexityLevel:   level,
		ComplexityClamped: clamped,
		EstimatedHours:    hours,
		EstimatedDuration: hoursToDuration(hours),
		HourlyRate:        rate,
		TotalPrice:        total,
		DepositAmount:     deposit,
	}, nil
}

// HasProfile возвращает true, если для пары размер + место есть профиль
func (c *Calculator) HasProfile(size, placement string) bool {
	_, ok := c.profiles[domain.ProfileKey(size, placement)]
	return ok
}

// ComplexityRange возвращает допустимый диапазон уровней сложности
func (c *Calculator) ComplexityRange() (int, int) {
	return c.minLevel, c.maxLevel
}

func (c *Calculator) clampLevel(level int) (int, bool) {
	if level < c.minLevel {
		return c.minLevel, true
	}
	if level > c.maxLevel {
		return c.maxLevel, true
	}
	return level, false
}

// round2 округляет до копеек. Значения неотрицательные, поэтому
// округление "от нуля" у decimal совпадает с half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// hoursToDuration переводит часы в длительность с округлением вверх до минуты
func hoursToDuration(hours decimal.Decimal) time.Duration {
	minutes := hours.Mul(minutesPerHour).Ceil().IntPart()
	return time.Duration(minutes) * time.Minute
}
