package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/service/scheduling"
)

func TestRespondSchedulingError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "slot conflict", err: fmt.Errorf("wrap: %w", &scheduling.SlotConflictError{AppointmentID: uuid.New()}), want: http.StatusConflict},
		{name: "invalid interval", err: fmt.Errorf("%w: Create - end before start", scheduling.ErrInvalidInterval), want: http.StatusUnprocessableEntity},
		{name: "unknown profile", err: scheduling.ErrUnknownProfile, want: http.StatusUnprocessableEntity},
		{name: "outside hours", err: scheduling.ErrOutsideWorkingHours, want: http.StatusUnprocessableEntity},
		{name: "invalid transition", err: scheduling.ErrInvalidTransition, want: http.StatusConflict},
		{name: "already cancelled", err: scheduling.ErrAlreadyCancelled, want: http.StatusConflict},
		{name: "terminal", err: scheduling.ErrTerminalState, want: http.StatusConflict},
		{name: "reschedule not allowed", err: scheduling.ErrRescheduleNotAllowed, want: http.StatusConflict},
		{name: "appointment not found", err: scheduling.ErrAppointmentNotFound, want: http.StatusNotFound},
		{name: "resource not found", err: scheduling.ErrResourceNotFound, want: http.StatusNotFound},
		{name: "busy", err: scheduling.ErrResourceBusy, want: http.StatusServiceUnavailable},
		{name: "invalid input", err: scheduling.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			status := RespondSchedulingError(rec, tt.err)

			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.want, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondSchedulingError_ConflictDetails(t *testing.T) {
	id := uuid.New()
	rec := httptest.NewRecorder()

	RespondSchedulingError(rec, &scheduling.SlotConflictError{AppointmentID: id})

	var body struct {
		Details SlotConflictDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Details.ConflictingAppointmentID)
	assert.Equal(t, id, *body.Details.ConflictingAppointmentID)
}

func TestRespondSchedulingError_BusySetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSchedulingError(rec, scheduling.ErrResourceBusy)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
