package estimate_price

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

// EstimateRequest HTTP request model
type EstimateRequest struct {
	Size             string  `json:"size"`
	Placement        string  `json:"placement"`
	ComplexityLevel  int     `json:"complexityLevel"`
	CustomHourlyRate *string `json:"customHourlyRate,omitempty"`
}

// EstimateResponse HTTP response model
type EstimateResponse struct {
	Size              string `json:"size"`
	Placement         string `json:"placement"`
	ComplexityLevel   int    `json:"complexityLevel"`
	ComplexityClamped bool   `json:"complexityClamped"`
	EstimatedHours    string `json:"estimatedHours"`
	DurationMinutes   int    `json:"durationMinutes"`
	HourlyRate        string `json:"hourlyRate"`
	TotalPrice        string `json:"totalPrice"`
	DepositAmount     string `json:"depositAmount"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос калькулятора
func (r *EstimateRequest) ToServiceRequest() (pricing.EstimateRequest, error) {
	req := pricing.EstimateRequest{
		Size:            r.Size,
		Placement:       r.Placement,
		ComplexityLevel: r.ComplexityLevel,
	}
	if r.CustomHourlyRate != nil {
		rate, err := decimal.NewFromString(*r.CustomHourlyRate)
		if err != nil {
			return req, fmt.Errorf("customHourlyRate: %w", err)
		}
		req.CustomHourlyRate = &rate
	}
	return req, nil
}

// FromDomain конвертирует оценку в HTTP ответ
func FromDomain(e *domain.Estimate) *EstimateResponse {
	return &EstimateResponse{
		Size:              e.Size,
		Placement:         e.Placement,
		ComplexityLevel:   e.ComplexityLevel,
		ComplexityClamped: e.ComplexityClamped,
		EstimatedHours:    e.EstimatedHours.String(),
		DurationMinutes:   int(e.EstimatedDuration.Minutes()),
		HourlyRate:        e.HourlyRate.StringFixed(2),
		TotalPrice:        e.TotalPrice.StringFixed(2),
		DepositAmount:     e.DepositAmount.StringFixed(2),
	}
}
