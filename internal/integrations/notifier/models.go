package notifier

import (
	"context"
	"errors"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// Notifier точка, через которую движок сообщает о зафиксированных изменениях записи
type Notifier interface {
	Notify(ctx context.Context, event domain.Event) error
}

// Sink конкретный получатель событий (Kafka, вебхук, лог)
type Sink interface {
	Notifier
	Name() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчики доставки уведомлений
type Metrics interface {
	IncNotification(sink, status string)
}

// Статусы доставки для метрик
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
)

// WebhookPayload тело запроса, которое получает вебхук
type WebhookPayload struct {
	Event domain.Event `json:"event"`
}

// ErrorResponse модель ошибки от получателя вебхука
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Multi рассылает событие во все sinks и объединяет ошибки
type Multi []Sink

// Notify отправляет событие каждому получателю, ошибка одного не мешает остальным
func (m Multi) Notify(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Name() string {
	return "multi"
}

// Nop ничего не делает
type Nop struct{}

func (Nop) Notify(context.Context, domain.Event) error { return nil }

func (Nop) Name() string { return "nop" }
