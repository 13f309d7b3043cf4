package get_customer_appointments

import "errors"

var (
	// ErrInvalidInput некорректные параметры запроса
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("usecase: internal error")
)
