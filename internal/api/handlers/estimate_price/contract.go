package estimate_price

import (
	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

type PriceEstimator interface {
	Estimate(req pricing.EstimateRequest) (*domain.Estimate, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
