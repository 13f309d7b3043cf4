package resource

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/pkg/ptr"
	"github.com/m04kA/SMC-InkBookingService/pkg/types"
)

var (
	resourceCols = []string{"id", "name", "timezone", "hourly_rate", "active", "created_at", "updated_at"}
	hoursCols    = []string{"resource_id", "weekday", "is_open", "open_time", "close_time", "break_start", "break_end"}
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func weekdayHours() domain.WorkingHours {
	var hours domain.WorkingHours
	open := domain.DaySchedule{
		IsOpen:     true,
		OpenTime:   "10:00",
		CloseTime:  "19:00",
		BreakStart: ptr.Ptr(types.TimeString("14:00")),
		BreakEnd:   ptr.Ptr(types.TimeString("15:00")),
	}
	for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		hours.Set(day, open)
	}
	return hours
}

func TestGetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, timezone, hourly_rate, active, created_at, updated_at FROM resources WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(resourceCols).AddRow(7, "Mira", "Europe/Berlin", "175.50", true, now, now))
	mock.ExpectQuery(`FROM resource_working_hours WHERE resource_id IN \(\$1\) ORDER BY resource_id ASC, weekday ASC`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(hoursCols).
			AddRow(7, int(time.Monday), true, "10:00:00", "19:00:00", "14:00:00", "15:00:00").
			AddRow(7, int(time.Sunday), false, nil, nil, nil, nil))

	got, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Mira", got.Name)
	assert.Equal(t, "Europe/Berlin", got.Timezone)
	require.NotNil(t, got.HourlyRate)
	assert.Equal(t, "175.5", got.HourlyRate.String())

	monday := got.WorkingHours.ForDay(time.Monday)
	assert.True(t, monday.IsOpen)
	assert.Equal(t, types.TimeString("10:00"), monday.OpenTime)
	assert.Equal(t, types.TimeString("19:00"), monday.CloseTime)
	require.True(t, monday.HasBreak())
	assert.Equal(t, types.TimeString("14:00"), *monday.BreakStart)

	sunday := got.WorkingHours.ForDay(time.Sunday)
	assert.False(t, sunday.IsOpen)
	assert.Nil(t, sunday.BreakStart)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM resources`).WillReturnRows(sqlmock.NewRows(resourceCols))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestList(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM resources ORDER BY id ASC`).
		WillReturnRows(sqlmock.NewRows(resourceCols).
			AddRow(1, "Mira", "", nil, true, now, now).
			AddRow(2, "Oskar", "UTC", "90", false, now, now))
	mock.ExpectQuery(`FROM resource_working_hours WHERE resource_id IN \(\$1,\$2\)`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(hoursCols).
			AddRow(2, int(time.Friday), true, "12:00:00", "20:00:00", nil, nil))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].HourlyRate)
	require.NotNil(t, got[1].HourlyRate)
	assert.Equal(t, "90", got[1].HourlyRate.String())
	assert.False(t, got[0].WorkingHours.ForDay(time.Friday).IsOpen)
	assert.True(t, got[1].WorkingHours.ForDay(time.Friday).IsOpen)
	assert.False(t, got[1].WorkingHours.ForDay(time.Friday).HasBreak())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Empty(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM resources`).WillReturnRows(sqlmock.NewRows(resourceCols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO resources \(name,timezone,hourly_rate,active\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id, created_at, updated_at`).
		WithArgs("Mira", "Europe/Berlin", sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))
	mock.ExpectExec(`INSERT INTO resource_working_hours .* ON CONFLICT \(resource_id, weekday\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	got, err := repo.Create(context.Background(), &domain.Resource{
		Name:         "Mira",
		Timezone:     "Europe/Berlin",
		Active:       true,
		WorkingHours: weekdayHours(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWorkingHours(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE resources SET updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO resource_working_hours`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	require.NoError(t, repo.UpdateWorkingHours(context.Background(), 3, weekdayHours()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWorkingHours_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE resources`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateWorkingHours(context.Background(), 3, weekdayHours())
	assert.ErrorIs(t, err, ErrResourceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWorkingHours_ExecError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE resources`).WillReturnError(sql.ErrConnDone)

	err := repo.UpdateWorkingHours(context.Background(), 3, weekdayHours())
	assert.ErrorIs(t, err, ErrExecQuery)
}
