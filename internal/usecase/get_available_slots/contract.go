package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

// ResourceRepository интерфейс репозитория мастеров
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// AvailabilityIndex индекс занятых интервалов
type AvailabilityIndex interface {
	// HasConflict проверяет пересечение [start, end) с занятыми интервалами мастера
	HasConflict(resourceID int64, start, end time.Time, exclude *uuid.UUID) (uuid.UUID, bool)
}

// PricingCalculator калькулятор длительности сеанса
type PricingCalculator interface {
	Estimate(req pricing.EstimateRequest) (*domain.Estimate, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
