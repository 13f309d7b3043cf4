package notifier

import "errors"

var (
	// ErrQueueFull возвращается, когда буфер асинхронной отправки заполнен и событие отброшено
	ErrQueueFull = errors.New("notifier: queue is full, event dropped")

	// ErrClosed возвращается при отправке после Close
	ErrClosed = errors.New("notifier: dispatcher is closed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе получателя вебхука
	ErrInvalidResponse = errors.New("notifier: invalid webhook response")

	// ErrPublish возвращается, если событие не удалось опубликовать в Kafka
	ErrPublish = errors.New("notifier: failed to publish event")
)
