package get_customer_appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-InkBookingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo *memory.AppointmentRepository, customerID int64, start time.Time, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()
	appt, err := repo.Create(context.Background(), &domain.Appointment{
		ID:         uuid.New(),
		ResourceID: 1,
		CustomerID: customerID,
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Status:     status,
	})
	require.NoError(t, err)
	return appt
}

func TestExecute(t *testing.T) {
	repo := memory.NewAppointmentRepository()
	past := seed(t, repo, 42, now.Add(-72*time.Hour), domain.StatusCompleted)
	future := seed(t, repo, 42, now.Add(48*time.Hour), domain.StatusScheduled)
	seed(t, repo, 7, now.Add(24*time.Hour), domain.StatusScheduled)

	uc := NewUseCase(repo, nopLogger{}).WithTimeProvider(fixedClock(now))

	resp, err := uc.Execute(context.Background(), &Request{CustomerID: 42})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, future.ID, resp.Appointments[0].ID)
	assert.Equal(t, past.ID, resp.Appointments[1].ID)

	resp, err = uc.Execute(context.Background(), &Request{CustomerID: 42, UpcomingOnly: true})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, future.ID, resp.Appointments[0].ID)

	resp, err = uc.Execute(context.Background(), &Request{CustomerID: 42, Status: ptr.Ptr("completed")})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, past.ID, resp.Appointments[0].ID)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(memory.NewAppointmentRepository(), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{CustomerID: 0})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = uc.Execute(context.Background(), &Request{CustomerID: 1, Status: ptr.Ptr("done")})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
