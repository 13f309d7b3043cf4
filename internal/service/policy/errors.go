package policy

import "errors"

var (
	// ErrAlreadyCancelled возвращается при попытке отменить уже отмененную запись
	ErrAlreadyCancelled = errors.New("policy: appointment already cancelled")

	// ErrTerminalState возвращается, если запись уже завершена или клиент не пришел
	ErrTerminalState = errors.New("policy: appointment is in a terminal state")

	// ErrInvalidPolicy возвращается при некорректном наборе тарифов отмены
	ErrInvalidPolicy = errors.New("policy: invalid cancellation tiers")
)
