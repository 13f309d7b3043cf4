package scheduling

import (
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// CreateRequest запрос на создание записи
type CreateRequest struct {
	ResourceID      int64
	CustomerID      int64
	Start           time.Time
	End             time.Time
	Size            string
	Placement       string
	ComplexityLevel int
	Notes           *string
}

// RescheduleRequest запрос на перенос записи
type RescheduleRequest struct {
	Start   time.Time
	End     time.Time
	ActorID *int64
}

// TransitionRequest запрос на смену статуса
type TransitionRequest struct {
	ActorID *int64
	Reason  *string
}

// CancelRequest запрос на отмену
type CancelRequest struct {
	ReasonCode string
	ActorID    *int64
}

// CancellationResult результат отмены: запись и расчет штрафа/возврата
type CancellationResult struct {
	Appointment *domain.Appointment
	Outcome     *domain.CancellationOutcome
}

// Options параметры движка
type Options struct {
	// MinBookingNotice минимальный запас времени до начала новой записи или переноса
	MinBookingNotice time.Duration
	// LockTimeout сколько ждать блокировку мастера
	LockTimeout time.Duration
	// RefreshOnLock перечитывать записи мастера из хранилища после взятия блокировки.
	// Нужно, когда несколько инстансов работают с одной БД.
	RefreshOnLock bool
}

const (
	DefaultLockTimeout = 3 * time.Second

	outcomeOK       = "ok"
	outcomeConflict = "conflict"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)
