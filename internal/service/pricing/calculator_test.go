package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testConfig() domain.PricingConfig {
	return domain.PricingConfig{
		Profiles: []domain.SizeComplexityProfile{
			{Size: "small", Placement: "wrist", BaseHours: dec("1"), SizeFactor: dec("0.5"), PlacementFactor: dec("1.1")},
			{Size: "medium", Placement: "arm", BaseHours: dec("1"), SizeFactor: dec("1"), PlacementFactor: dec("1")},
			{Size: "large", Placement: "back", BaseHours: dec("2"), SizeFactor: dec("2"), PlacementFactor: dec("1.25")},
		},
		ComplexityFactors: map[int]decimal.Decimal{
			1: dec("1"), 2: dec("1.25"), 3: dec("1.5"), 4: dec("1.75"), 5: dec("2"),
		},
		MinComplexity:     1,
		MaxComplexity:     5,
		BaseHourlyRate:    dec("150"),
		DepositPercentage: dec("0.20"),
	}
}

func newCalculator(t *testing.T) *Calculator {
	t.Helper()
	c, err := NewCalculator(testConfig())
	require.NoError(t, err)
	return c
}

func TestEstimate_MediumArm(t *testing.T) {
	c := newCalculator(t)

	est, err := c.Estimate(EstimateRequest{Size: "medium", Placement: "arm", ComplexityLevel: 3})
	require.NoError(t, err)

	assert.True(t, dec("1.5").Equal(est.EstimatedHours))
	assert.True(t, dec("225").Equal(est.TotalPrice), est.TotalPrice.String())
	assert.True(t, dec("45").Equal(est.DepositAmount), est.DepositAmount.String())
	assert.Equal(t, 90*time.Minute, est.EstimatedDuration)
	assert.Equal(t, 3, est.ComplexityLevel)
	assert.False(t, est.ComplexityClamped)
}

func TestEstimate_CaseInsensitiveLookup(t *testing.T) {
	c := newCalculator(t)

	est, err := c.Estimate(EstimateRequest{Size: " Medium ", Placement: "ARM", ComplexityLevel: 1})
	require.NoError(t, err)
	assert.Equal(t, "medium", est.Size)
}

func TestEstimate_UnknownProfile(t *testing.T) {
	c := newCalculator(t)

	_, err := c.Estimate(EstimateRequest{Size: "medium", Placement: "ribs", ComplexityLevel: 3})
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestEstimate_SeparatorInNamesDoesNotCollide(t *testing.T) {
	cfg := testConfig()
	cfg.Profiles = []domain.SizeComplexityProfile{
		{Size: "a|b", Placement: "c", BaseHours: dec("1"), SizeFactor: dec("1"), PlacementFactor: dec("1")},
		{Size: "a", Placement: "b|c", BaseHours: dec("3"), SizeFactor: dec("1"), PlacementFactor: dec("1")},
	}
	c, err := NewCalculator(cfg)
	require.NoError(t, err)

	first, err := c.Estimate(EstimateRequest{Size: "a|b", Placement: "c", ComplexityLevel: 1})
	require.NoError(t, err)
	assert.True(t, dec("1").Equal(first.EstimatedHours), first.EstimatedHours.String())

	second, err := c.Estimate(EstimateRequest{Size: "a", Placement: "b|c", ComplexityLevel: 1})
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(second.EstimatedHours), second.EstimatedHours.String())

	_, err = c.Estimate(EstimateRequest{Size: "a", Placement: "b", ComplexityLevel: 1})
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestEstimate_ClampsComplexity(t *testing.T) {
	c := newCalculator(t)

	tests := []struct {
		name      string
		requested int
		wantLevel int
		clamped   bool
	}{
		{"below range", 0, 1, true},
		{"negative", -3, 1, true},
		{"above range", 9, 5, true},
		{"lower bound", 1, 1, false},
		{"upper bound", 5, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := c.Estimate(EstimateRequest{Size: "medium", Placement: "arm", ComplexityLevel: tt.requested})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, est.ComplexityLevel)
			assert.Equal(t, tt.clamped, est.ComplexityClamped)
		})
	}
}

func TestEstimate_CustomRateAndRounding(t *testing.T) {
	c := newCalculator(t)
	rate := dec("133.33")

	// 1 * 0.5 * 1.1 * 1.25 = 0.6875h
	est, err := c.Estimate(EstimateRequest{Size: "small", Placement: "wrist", ComplexityLevel: 2, CustomHourlyRate: &rate})
	require.NoError(t, err)

	// 0.6875 * 133.33 = 91.664375 -> 91.66
	assert.Equal(t, "91.66", est.TotalPrice.StringFixed(2))
	// 91.66 * 0.2 = 18.332 -> 18.33
	assert.Equal(t, "18.33", est.DepositAmount.StringFixed(2))
	// 41.25 minutes rounded up
	assert.Equal(t, 42*time.Minute, est.EstimatedDuration)
	assert.True(t, rate.Equal(est.HourlyRate))
}

func TestEstimate_RoundHalfUp(t *testing.T) {
	cfg := testConfig()
	cfg.Profiles = []domain.SizeComplexityProfile{
		{Size: "tiny", Placement: "finger", BaseHours: dec("0.5"), SizeFactor: dec("1"), PlacementFactor: dec("1")},
	}
	c, err := NewCalculator(cfg)
	require.NoError(t, err)

	rate := dec("0.01")
	// 0.5 * 0.01 = 0.005 -> 0.01
	est, err := c.Estimate(EstimateRequest{Size: "tiny", Placement: "finger", ComplexityLevel: 1, CustomHourlyRate: &rate})
	require.NoError(t, err)
	assert.Equal(t, "0.01", est.TotalPrice.StringFixed(2))
}

func TestEstimate_NegativeCustomRate(t *testing.T) {
	c := newCalculator(t)
	rate := dec("-1")

	_, err := c.Estimate(EstimateRequest{Size: "medium", Placement: "arm", ComplexityLevel: 3, CustomHourlyRate: &rate})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEstimate_Idempotent(t *testing.T) {
	c := newCalculator(t)
	req := EstimateRequest{Size: "large", Placement: "back", ComplexityLevel: 4}

	first, err := c.Estimate(req)
	require.NoError(t, err)
	second, err := c.Estimate(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewCalculator_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *domain.PricingConfig)
	}{
		{"missing factor", func(cfg *domain.PricingConfig) { delete(cfg.ComplexityFactors, 4) }},
		{"inverted range", func(cfg *domain.PricingConfig) { cfg.MinComplexity = 6 }},
		{"deposit above one", func(cfg *domain.PricingConfig) { cfg.DepositPercentage = dec("1.5") }},
		{"negative base rate", func(cfg *domain.PricingConfig) { cfg.BaseHourlyRate = dec("-10") }},
		{"duplicate profile", func(cfg *domain.PricingConfig) {
			cfg.Profiles = append(cfg.Profiles, domain.SizeComplexityProfile{
				Size: "MEDIUM", Placement: "Arm", BaseHours: dec("1"), SizeFactor: dec("1"), PlacementFactor: dec("1"),
			})
		}},
		{"zero base hours", func(cfg *domain.PricingConfig) { cfg.Profiles[0].BaseHours = decimal.Zero }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewCalculator(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
