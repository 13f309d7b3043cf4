package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/availability"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/appointment"
	resourceRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-InkBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-InkBookingService/internal/service/policy"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-InkBookingService/internal/service/scheduling")

// Engine движок записи: проверка слота, фиксация и смены статусов.
// Проверка пересечений и запись выполняются под блокировкой мастера.
type Engine struct {
	appointments AppointmentRepository
	resources    ResourceRepository
	transitions  TransitionRecorder
	index        AvailabilityIndex
	locker       Locker
	pricing      PricingCalculator
	policy       PolicyEvaluator
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
	opts         Options
}

// NewEngine создает новый экземпляр движка записи
func NewEngine(
	appointments AppointmentRepository,
	resources ResourceRepository,
	transitions TransitionRecorder,
	index AvailabilityIndex,
	locker Locker,
	pricing PricingCalculator,
	policy PolicyEvaluator,
	notifier Notifier,
	txManager TransactionManager,
	timeProvider TimeProvider,
	metrics Metrics,
	logger Logger,
	opts Options,
) *Engine {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultLockTimeout
	}
	return &Engine{
		appointments: appointments,
		resources:    resources,
		transitions:  transitions,
		index:        index,
		locker:       locker,
		pricing:      pricing,
		policy:       policy,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: timeProvider,
		metrics:      metrics,
		logger:       logger,
		opts:         opts,
	}
}

// WarmUp загружает в индекс все записи, занимающие слоты
func (e *Engine) WarmUp(ctx context.Context) (int, error) {
	holding, err := e.appointments.ListHolding(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: WarmUp - list holding appointments: %v", ErrInternal, err)
	}

	loaded, err := e.index.Load(holding)
	if err != nil {
		return loaded, fmt.Errorf("%w: WarmUp - load index: %v", ErrInternal, err)
	}

	e.logger.Info("WarmUp: loaded %d holding appointments into availability index", loaded)
	return loaded, nil
}

// lockResource берет блокировку мастера с таймаутом.
// При RefreshOnLock индекс мастера перечитывается из хранилища.
func (e *Engine) lockResource(ctx context.Context, resourceID int64) (lock.Unlock, error) {
	lockCtx, cancel := context.WithTimeout(ctx, e.opts.LockTimeout)
	defer cancel()

	started := time.Now()
	unlock, err := e.locker.Lock(lockCtx, resourceID)
	e.metrics.ObserveLockWait(e.locker.Name(), time.Since(started))
	if err != nil {
		e.logger.Warn("lockResource: resource=%d locker=%s: %v", resourceID, e.locker.Name(), err)
		return nil, fmt.Errorf("%w: resource=%d", ErrResourceBusy, resourceID)
	}

	if !e.opts.RefreshOnLock {
		return unlock, nil
	}

	holding, err := e.appointments.ListByResource(ctx, domain.AppointmentsFilter{ResourceID: resourceID})
	if err != nil {
		unlock()
		return nil, fmt.Errorf("%w: lockResource - refresh resource=%d: %v", ErrInternal, resourceID, err)
	}
	if err := e.index.Replace(resourceID, holding); err != nil {
		unlock()
		return nil, fmt.Errorf("%w: lockResource - replace index resource=%d: %v", ErrInternal, resourceID, err)
	}
	return unlock, nil
}

// commit выполняет fn в сериализуемой транзакции. apply меняет индекс последним шагом,
// revert отменяет это изменение, если транзакция в итоге не зафиксировалась.
// Повтор транзакции сначала откатывает изменение индекса предыдущей попытки.
func (e *Engine) commit(ctx context.Context, fn func(ctx context.Context) error, apply func() error, revert func()) error {
	applied := false

	err := e.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if applied {
			revert()
			applied = false
		}
		if err := fn(txCtx); err != nil {
			return err
		}
		if err := apply(); err != nil {
			return err
		}
		applied = true
		return nil
	})

	if err != nil && applied {
		revert()
	}
	return err
}

// loadResource получает активного мастера
func (e *Engine) loadResource(ctx context.Context, resourceID int64) (*domain.Resource, error) {
	resource, err := e.resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource=%d", ErrResourceNotFound, resourceID)
		}
		return nil, fmt.Errorf("%w: loadResource - resource=%d: %v", ErrInternal, resourceID, err)
	}
	if !resource.Active {
		return nil, fmt.Errorf("%w: resource=%d is inactive", ErrResourceNotFound, resourceID)
	}
	return resource, nil
}

// checkInterval проверяет границы интервала и минимальный запас времени до начала
func (e *Engine) checkInterval(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidInterval)
	}
	if end.Sub(start) > domain.MaxAppointmentDuration*time.Minute {
		return fmt.Errorf("%w: duration %s exceeds %d minutes", ErrInvalidInterval, end.Sub(start), domain.MaxAppointmentDuration)
	}
	if earliest := now.Add(e.opts.MinBookingNotice); start.Before(earliest) {
		return fmt.Errorf("%w: start %s is before %s", ErrInvalidInterval,
			start.UTC().Format(time.RFC3339), earliest.UTC().Format(time.RFC3339))
	}
	return nil
}

// checkWorkingHours переводит ошибки проверки рабочего времени в ошибки движка
func checkWorkingHours(resource *domain.Resource, start, end time.Time) error {
	err := availability.WithinWorkingHours(resource, start, end)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, availability.ErrOutsideWorkingHours):
		return fmt.Errorf("%w: %v", ErrOutsideWorkingHours, err)
	case errors.Is(err, availability.ErrInvalidInterval):
		return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	default:
		return fmt.Errorf("%w: checkWorkingHours: %v", ErrInternal, err)
	}
}

// estimate переводит ошибки калькулятора в ошибки движка
func (e *Engine) estimate(req pricing.EstimateRequest) (*domain.Estimate, error) {
	est, err := e.pricing.Estimate(req)
	switch {
	case err == nil:
		return est, nil
	case errors.Is(err, pricing.ErrUnknownProfile):
		return nil, fmt.Errorf("%w: size=%q placement=%q", ErrUnknownProfile, req.Size, req.Placement)
	case errors.Is(err, pricing.ErrInvalidInput):
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return nil, fmt.Errorf("%w: estimate: %v", ErrInternal, err)
	}
}

// evaluatePolicy переводит ошибки политики отмены в ошибки движка
func (e *Engine) evaluatePolicy(appt *domain.Appointment, at time.Time) (*domain.CancellationOutcome, error) {
	if appt.Status == domain.StatusInProgress {
		return nil, fmt.Errorf("%w: appointment %s is in progress", ErrInvalidTransition, appt.ID)
	}

	outcome, err := e.policy.Evaluate(appt, at)
	switch {
	case err == nil:
		return outcome, nil
	case errors.Is(err, policy.ErrAlreadyCancelled):
		return nil, fmt.Errorf("%w: appointment %s", ErrAlreadyCancelled, appt.ID)
	case errors.Is(err, policy.ErrTerminalState):
		return nil, fmt.Errorf("%w: appointment %s status=%s", ErrTerminalState, appt.ID, appt.Status)
	default:
		return nil, fmt.Errorf("%w: evaluate policy: %v", ErrInternal, err)
	}
}

// mapStoreError переводит ошибки хранилища и индекса в ошибки движка.
// Ошибки движка пропускаются без изменений.
func mapStoreError(op string, err error) error {
	var conflict *SlotConflictError
	switch {
	case errors.As(err, &conflict):
		return err
	case errors.Is(err, appointmentRepo.ErrSlotConflict), errors.Is(err, availability.ErrOverlap):
		return &SlotConflictError{}
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return fmt.Errorf("%w: %s", ErrAppointmentNotFound, op)
	case isEngineError(err):
		return err
	default:
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}

func isEngineError(err error) bool {
	for _, target := range []error{
		ErrInvalidInterval, ErrUnknownProfile, ErrSlotConflict, ErrOutsideWorkingHours,
		ErrInvalidTransition, ErrAlreadyCancelled, ErrTerminalState, ErrRescheduleNotAllowed,
		ErrAppointmentNotFound, ErrResourceNotFound, ErrResourceBusy, ErrInvalidInput, ErrInternal,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// getAppointment читает запись и переводит "не найдено" в ошибку движка
func (e *Engine) getAppointment(ctx context.Context, op string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := e.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(fmt.Sprintf("%s - appointment=%s", op, id), err)
	}
	return appt, nil
}

// notify отправляет событие после фиксации. Ошибки только логируются.
func (e *Engine) notify(ctx context.Context, event domain.Event) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(context.WithoutCancel(ctx), event); err != nil {
		e.logger.Warn("notify: event=%s appointment=%s: %v", event.Type, event.AppointmentID, err)
		// переполнение очереди уже посчитано самой очередью
		if !errors.Is(err, notifier.ErrQueueFull) {
			e.metrics.IncNotification("engine", "failed")
		}
	}
}

// finish отмечает результат операции в метриках и трейсе
func (e *Engine) finish(span trace.Span, operation string, err error) {
	outcome := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrSlotConflict):
		outcome = outcomeConflict
	case errors.Is(err, ErrInternal), errors.Is(err, ErrResourceBusy):
		outcome = outcomeError
	default:
		outcome = outcomeRejected
	}
	e.metrics.IncAppointmentRequest(operation, outcome)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
}

type noopMetrics struct{}

func (noopMetrics) IncAppointmentRequest(string, string)  {}
func (noopMetrics) IncTransition(string, string)          {}
func (noopMetrics) ObserveLockWait(string, time.Duration) {}
func (noopMetrics) IncNotification(string, string)        {}
