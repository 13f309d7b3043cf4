package get_available_slots

import "errors"

var (
	// ErrResourceNotFound возвращается, когда мастер не найден или неактивен
	ErrResourceNotFound = errors.New("resource not found")

	// ErrUnknownProfile возвращается, когда нет профиля цены для размера и места
	ErrUnknownProfile = errors.New("unknown size/placement profile")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата дальше окна записи
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
