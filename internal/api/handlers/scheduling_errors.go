package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

const (
	msgSlotConflict          = "выбранное время пересекается с другой записью"
	msgInvalidInterval       = "некорректный интервал записи"
	msgUnknownProfile        = "нет тарифа для выбранного размера и места"
	msgOutsideWorkingHours   = "выбранное время вне рабочего графика мастера"
	msgInvalidTransition     = "недопустимая смена статуса записи"
	msgAlreadyCancelled      = "запись уже отменена"
	msgTerminalState         = "запись уже завершена"
	msgRescheduleNotAllowed  = "перенос записи уже невозможен по правилам отмены"
	msgAppointmentNotFound   = "запись не найдена"
	msgResourceNotFound      = "мастер не найден"
	msgResourceBusy          = "мастер занят другой операцией, повторите запрос"
	msgInvalidSchedulingData = "некорректные данные записи"
)

// SlotConflictDetails детали конфликта слотов
type SlotConflictDetails struct {
	ConflictingAppointmentID *uuid.UUID `json:"conflictingAppointmentId,omitempty"`
}

// RespondSchedulingError переводит ошибку движка записи в HTTP ответ
// и возвращает отправленный статус
func RespondSchedulingError(w http.ResponseWriter, err error) int {
	var conflict *scheduling.SlotConflictError

	switch {
	case errors.As(err, &conflict):
		details := SlotConflictDetails{}
		if conflict.AppointmentID != uuid.Nil {
			id := conflict.AppointmentID
			details.ConflictingAppointmentID = &id
		}
		RespondErrorWithDetails(w, http.StatusConflict, msgSlotConflict, details)
		return http.StatusConflict

	case errors.Is(err, scheduling.ErrSlotConflict):
		RespondConflict(w, msgSlotConflict)
		return http.StatusConflict

	case errors.Is(err, scheduling.ErrInvalidInterval):
		RespondUnprocessable(w, msgInvalidInterval)
		return http.StatusUnprocessableEntity

	case errors.Is(err, scheduling.ErrUnknownProfile):
		RespondUnprocessable(w, msgUnknownProfile)
		return http.StatusUnprocessableEntity

	case errors.Is(err, scheduling.ErrOutsideWorkingHours):
		RespondUnprocessable(w, msgOutsideWorkingHours)
		return http.StatusUnprocessableEntity

	case errors.Is(err, scheduling.ErrInvalidTransition):
		RespondConflict(w, msgInvalidTransition)
		return http.StatusConflict

	case errors.Is(err, scheduling.ErrAlreadyCancelled):
		RespondConflict(w, msgAlreadyCancelled)
		return http.StatusConflict

	case errors.Is(err, scheduling.ErrTerminalState):
		RespondConflict(w, msgTerminalState)
		return http.StatusConflict

	case errors.Is(err, scheduling.ErrRescheduleNotAllowed):
		RespondConflict(w, msgRescheduleNotAllowed)
		return http.StatusConflict

	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		RespondNotFound(w, msgAppointmentNotFound)
		return http.StatusNotFound

	case errors.Is(err, scheduling.ErrResourceNotFound):
		RespondNotFound(w, msgResourceNotFound)
		return http.StatusNotFound

	case errors.Is(err, scheduling.ErrResourceBusy):
		w.Header().Set("Retry-After", "1")
		RespondError(w, http.StatusServiceUnavailable, msgResourceBusy)
		return http.StatusServiceUnavailable

	case errors.Is(err, scheduling.ErrInvalidInput):
		RespondBadRequest(w, msgInvalidSchedulingData)
		return http.StatusBadRequest

	default:
		RespondInternalError(w)
		return http.StatusInternalServerError
	}
}
