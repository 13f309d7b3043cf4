package transition

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/pkg/ptr"
)

func TestAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr := &domain.Transition{
		AppointmentID: id,
		From:          ptr.Ptr(domain.StatusScheduled),
		To:            domain.StatusConfirmed,
		ActorID:       ptr.Ptr(int64(5)),
		OccurredAt:    at,
	}

	mock.ExpectQuery(`INSERT INTO appointment_transitions \(appointment_id,from_status,to_status,actor_id,reason,occurred_at\)`).
		WithArgs(id, "scheduled", "confirmed", int64(5), nil, at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	require.NoError(t, NewRepository(db).Append(context.Background(), tr))
	assert.Equal(t, int64(11), tr.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAppointment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.New()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	cols := []string{"id", "appointment_id", "from_status", "to_status", "actor_id", "reason", "occurred_at"}

	mock.ExpectQuery(`FROM appointment_transitions WHERE appointment_id = \$1 ORDER BY occurred_at ASC, id ASC`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, id.String(), nil, "scheduled", 42, nil, at).
			AddRow(2, id.String(), "scheduled", "cancelled", nil, "client_request", at.Add(time.Hour)))

	got, err := NewRepository(db).ListByAppointment(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Nil(t, got[0].From)
	assert.Equal(t, domain.StatusScheduled, got[0].To)
	require.NotNil(t, got[0].ActorID)
	assert.Equal(t, int64(42), *got[0].ActorID)

	require.NotNil(t, got[1].From)
	assert.Equal(t, domain.StatusScheduled, *got[1].From)
	assert.Equal(t, domain.StatusCancelled, got[1].To)
	require.NotNil(t, got[1].Reason)
	assert.Equal(t, "client_request", *got[1].Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}
