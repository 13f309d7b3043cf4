package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/availability"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Update(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListByResource(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	ListHolding(ctx context.Context) ([]*domain.Appointment, error)
}

// ResourceRepository интерфейс репозитория мастеров
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// TransitionRecorder журнал смен статусов
type TransitionRecorder interface {
	Append(ctx context.Context, t *domain.Transition) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*domain.Transition, error)
}

// AvailabilityIndex индекс занятых интервалов мастеров
type AvailabilityIndex interface {
	HasConflict(resourceID int64, start, end time.Time, exclude *uuid.UUID) (uuid.UUID, bool)
	Insert(appointmentID uuid.UUID, resourceID int64, start, end time.Time) error
	Remove(appointmentID uuid.UUID) bool
	Update(appointmentID uuid.UUID, newStart, newEnd time.Time) error
	Get(appointmentID uuid.UUID) (availability.Interval, bool)
	Replace(resourceID int64, appointments []*domain.Appointment) error
	Load(appointments []*domain.Appointment) (int, error)
}

// Locker блокировка мастера на время проверки и фиксации
type Locker interface {
	Lock(ctx context.Context, resourceID int64) (lock.Unlock, error)
	Name() string
}

// PricingCalculator калькулятор стоимости сеанса
type PricingCalculator interface {
	Estimate(req pricing.EstimateRequest) (*domain.Estimate, error)
}

// PolicyEvaluator политика отмены
type PolicyEvaluator interface {
	Evaluate(appt *domain.Appointment, at time.Time) (*domain.CancellationOutcome, error)
}

// Notifier получатель событий после фиксации изменений
type Notifier interface {
	Notify(ctx context.Context, event domain.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics доменные метрики записи
type Metrics interface {
	IncAppointmentRequest(operation, outcome string)
	IncTransition(from, to string)
	ObserveLockWait(locker string, duration time.Duration)
	IncNotification(sink, status string)
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
