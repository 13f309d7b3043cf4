package notifier

import (
	"context"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// LogSink пишет события в лог. Используется, если других получателей нет.
type LogSink struct {
	log Logger
}

// NewLogSink создает LogSink
func NewLogSink(log Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string {
	return "log"
}

func (s *LogSink) Notify(_ context.Context, event domain.Event) error {
	s.log.Info("Notify: event=%s appointment=%s resource=%d customer=%d payload=%v",
		event.Type, event.AppointmentID, event.ResourceID, event.CustomerID, event.Payload)
	return nil
}
