package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SizeComplexityProfile maps a (size, placement) pair to its time factors
type SizeComplexityProfile struct {
	Size            string
	Placement       string
	BaseHours       decimal.Decimal
	SizeFactor      decimal.Decimal
	PlacementFactor decimal.Decimal
}

// ProfileKeyParts is the normalized (size, placement) lookup key
type ProfileKeyParts struct {
	Size      string
	Placement string
}

// String renders the key for logs and error messages
func (k ProfileKeyParts) String() string {
	return k.Size + "/" + k.Placement
}

// Key returns the normalized lookup key of the profile
func (p SizeComplexityProfile) Key() ProfileKeyParts {
	return ProfileKey(p.Size, p.Placement)
}

// ProfileKey normalizes size and placement into a lookup key
func ProfileKey(size, placement string) ProfileKeyParts {
	return ProfileKeyParts{
		Size:      strings.ToLower(strings.TrimSpace(size)),
		Placement: strings.ToLower(strings.TrimSpace(placement)),
	}
}

// PricingConfig is the static configuration of the pricing calculator
type PricingConfig struct {
	Profiles          []SizeComplexityProfile
	ComplexityFactors map[int]decimal.Decimal // level -> factor
	MinComplexity     int
	MaxComplexity     int
	BaseHourlyRate    decimal.Decimal
	DepositPercentage decimal.Decimal
}

// Estimate is the result of a pricing calculation
type Estimate struct {
	Size              string
	Placement         string
	ComplexityLevel   int  // clamped value actually used
	ComplexityClamped bool // true if the requested level was out of range
	EstimatedHours    decimal.Decimal
	EstimatedDuration time.Duration // hours rounded up to the minute
	HourlyRate        decimal.Decimal
	TotalPrice        decimal.Decimal
	DepositAmount     decimal.Decimal
}
