package notifier

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

const (
	DefaultBufferSize  = 256
	DefaultWorkers     = 2
	DefaultSendTimeout = 5 * time.Second
)

// Async ставит события в буферизованную очередь и раздает их sinks в фоне.
// Если очередь заполнена, событие отбрасывается: запись уже зафиксирована,
// уведомление не должно тормозить бронирование.
type Async struct {
	sinks       []Sink
	queue       chan queuedEvent
	sendTimeout time.Duration
	log         Logger
	metrics     Metrics

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// queuedEvent событие вместе со span'ом вызывающего, чтобы sinks продолжили трассу
type queuedEvent struct {
	event   domain.Event
	spanCtx trace.SpanContext
}

// AsyncConfig параметры асинхронной рассылки
type AsyncConfig struct {
	BufferSize  int
	Workers     int
	SendTimeout time.Duration
}

// NewAsync запускает воркеры рассылки
func NewAsync(cfg AsyncConfig, sinks []Sink, log Logger, metrics Metrics) *Async {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}

	a := &Async{
		sinks:       sinks,
		queue:       make(chan queuedEvent, cfg.BufferSize),
		sendTimeout: cfg.SendTimeout,
		log:         log,
		metrics:     metrics,
	}

	for i := 0; i < cfg.Workers; i++ {
		a.wg.Add(1)
		go a.worker()
	}
	return a
}

// Notify ставит событие в очередь и сразу возвращается
func (a *Async) Notify(ctx context.Context, event domain.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- queuedEvent{event: event, spanCtx: trace.SpanContextFromContext(ctx)}:
		return nil
	default:
		a.log.Warn("Notify: queue full, dropping event=%s appointment=%s", event.Type, event.AppointmentID)
		a.count("queue", StatusDropped)
		return ErrQueueFull
	}
}

// Close перестает принимать события и ждет отправки оставшихся в очереди
// или отмены ctx
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) worker() {
	defer a.wg.Done()
	for item := range a.queue {
		a.dispatch(item)
	}
}

func (a *Async) dispatch(item queuedEvent) {
	event := item.event
	base := context.Background()
	if item.spanCtx.IsValid() {
		base = trace.ContextWithRemoteSpanContext(base, item.spanCtx)
	}

	for _, sink := range a.sinks {
		ctx, cancel := context.WithTimeout(base, a.sendTimeout)
		err := sink.Notify(ctx, event)
		cancel()

		if err != nil {
			a.log.Error("Notify: sink=%s failed for event=%s appointment=%s: %v",
				sink.Name(), event.Type, event.AppointmentID, err)
			a.count(sink.Name(), StatusFailed)
			continue
		}
		a.count(sink.Name(), StatusSent)
	}
}

func (a *Async) count(sink, status string) {
	if a.metrics != nil {
		a.metrics.IncNotification(sink, status)
	}
}
