package resources

import (
	"context"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// ResourceRepository интерфейс репозитория мастеров
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context) ([]*domain.Resource, error)
	UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
