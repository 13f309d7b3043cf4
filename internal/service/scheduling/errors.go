package scheduling

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInterval возвращается, когда конец не позже начала или начало уже прошло
	ErrInvalidInterval = errors.New("scheduling: invalid interval")

	// ErrUnknownProfile возвращается, когда нет профиля цены для размера и места
	ErrUnknownProfile = errors.New("scheduling: unknown size/placement profile")

	// ErrSlotConflict возвращается, когда интервал пересекается с другой записью мастера
	ErrSlotConflict = errors.New("scheduling: slot conflict")

	// ErrOutsideWorkingHours возвращается, когда интервал вне рабочего времени мастера
	ErrOutsideWorkingHours = errors.New("scheduling: outside working hours")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("scheduling: invalid status transition")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("scheduling: appointment already cancelled")

	// ErrTerminalState возвращается, если запись уже завершена
	ErrTerminalState = errors.New("scheduling: appointment is in a terminal state")

	// ErrRescheduleNotAllowed возвращается, когда уровень политики отмены запрещает перенос
	ErrRescheduleNotAllowed = errors.New("scheduling: reschedule not allowed by cancellation policy")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("scheduling: appointment not found")

	// ErrResourceNotFound возвращается, когда мастер не найден или неактивен
	ErrResourceNotFound = errors.New("scheduling: resource not found")

	// ErrResourceBusy возвращается, если блокировку мастера не удалось взять вовремя
	ErrResourceBusy = errors.New("scheduling: resource is busy, retry later")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("scheduling: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("scheduling: internal error")
)

// SlotConflictError сообщает, с какой записью пересекся интервал.
// AppointmentID пустой, если пересечение обнаружила только БД.
type SlotConflictError struct {
	AppointmentID uuid.UUID
}

func (e *SlotConflictError) Error() string {
	if e.AppointmentID == uuid.Nil {
		return ErrSlotConflict.Error()
	}
	return fmt.Sprintf("%s: overlaps appointment %s", ErrSlotConflict.Error(), e.AppointmentID)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrSlotConflict)
func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}
