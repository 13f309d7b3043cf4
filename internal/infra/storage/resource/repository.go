package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InkBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-InkBookingService/pkg/types"
)

var weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// Repository репозиторий для работы с мастерами и их рабочими часами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает мастера вместе с недельным расписанием.
// Вызывать внутри транзакции: вставка идет в две таблицы.
func (r *Repository) Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resources").
		Columns("name", "timezone", "hourly_rate", "active").
		Values(resource.Name, resource.Timezone, resource.HourlyRate, resource.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&resource.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	if err := r.upsertWorkingHours(ctx, executor, resource.ID, resource.WorkingHours); err != nil {
		return nil, err
	}

	return resource, nil
}

// GetByID получает мастера с рабочими часами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"hourly_rate",
		"active",
		"created_at",
		"updated_at",
	).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var resource domain.Resource
	var createdAt, updatedAt sql.NullTime
	var hourlyRate decimal.NullDecimal

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&resource.ID,
		&resource.Name,
		&resource.Timezone,
		&hourlyRate,
		&resource.Active,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time
	resource.HourlyRate = nullDecimalPtr(hourlyRate)

	hours, err := r.loadWorkingHours(ctx, executor, []int64{id})
	if err != nil {
		return nil, err
	}
	resource.WorkingHours = hours[id]

	return &resource, nil
}

// List получает всех мастеров, отсортированных по ID
func (r *Repository) List(ctx context.Context) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"hourly_rate",
		"active",
		"created_at",
		"updated_at",
	).
		From("resources").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var resource domain.Resource
		var createdAt, updatedAt sql.NullTime
		var hourlyRate decimal.NullDecimal
		if err := rows.Scan(
			&resource.ID,
			&resource.Name,
			&resource.Timezone,
			&hourlyRate,
			&resource.Active,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		resource.CreatedAt = createdAt.Time
		resource.UpdatedAt = updatedAt.Time
		resource.HourlyRate = nullDecimalPtr(hourlyRate)
		resources = append(resources, &resource)
		ids = append(ids, resource.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return resources, nil
	}

	hours, err := r.loadWorkingHours(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, resource := range resources {
		resource.WorkingHours = hours[resource.ID]
	}

	return resources, nil
}

// UpdateWorkingHours заменяет недельное расписание мастера.
// Вызывать внутри транзакции: обновляются две таблицы.
func (r *Repository) UpdateWorkingHours(ctx context.Context, id int64, hours domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrResourceNotFound
	}

	return r.upsertWorkingHours(ctx, executor, id, hours)
}

// upsertWorkingHours записывает все семь дней недели одним запросом
func (r *Repository) upsertWorkingHours(ctx context.Context, executor DBExecutor, id int64, hours domain.WorkingHours) error {
	insertBuilder := psqlbuilder.Insert("resource_working_hours").
		Columns("resource_id", "weekday", "is_open", "open_time", "close_time", "break_start", "break_end")

	for _, day := range weekdays {
		schedule := hours.ForDay(day)
		insertBuilder = insertBuilder.Values(
			id,
			int(day),
			schedule.IsOpen,
			schedule.OpenTime,
			schedule.CloseTime,
			schedule.BreakStart,
			schedule.BreakEnd,
		)
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (resource_id, weekday) DO UPDATE SET " +
			"is_open = EXCLUDED.is_open, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, " +
			"break_start = EXCLUDED.break_start, break_end = EXCLUDED.break_end").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: upsertWorkingHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsertWorkingHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadWorkingHours получает расписания для набора мастеров
func (r *Repository) loadWorkingHours(ctx context.Context, executor DBExecutor, ids []int64) (map[int64]domain.WorkingHours, error) {
	query, args, err := psqlbuilder.Select(
		"resource_id",
		"weekday",
		"is_open",
		"open_time",
		"close_time",
		"break_start",
		"break_end",
	).
		From("resource_working_hours").
		Where(squirrel.Eq{"resource_id": ids}).
		OrderBy("resource_id ASC", "weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64]domain.WorkingHours, len(ids))
	for rows.Next() {
		var (
			resourceID int64
			weekday    int
			schedule   domain.DaySchedule
			openTime   types.TimeString
			closeTime  types.TimeString
		)
		if err := rows.Scan(
			&resourceID,
			&weekday,
			&schedule.IsOpen,
			&openTime,
			&closeTime,
			&schedule.BreakStart,
			&schedule.BreakEnd,
		); err != nil {
			return nil, fmt.Errorf("%w: loadWorkingHours - scan row: %v", ErrScanRow, err)
		}
		schedule.OpenTime = openTime
		schedule.CloseTime = closeTime

		hours := result[resourceID]
		hours.Set(time.Weekday(weekday), schedule)
		result[resourceID] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
