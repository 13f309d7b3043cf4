package transition

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InkBookingService/pkg/psqlbuilder"
)

// Repository журнал смен статусов записей. Только добавление.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал.
// Вызывается в той же транзакции, что и изменение записи.
func (r *Repository) Append(ctx context.Context, t *domain.Transition) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_transitions").
		Columns("appointment_id", "from_status", "to_status", "actor_id", "reason", "occurred_at").
		Values(t.AppointmentID, t.From, t.To, t.ActorID, t.Reason, t.OccurredAt.UTC()).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByAppointment возвращает историю статусов записи в порядке возникновения
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*domain.Transition, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "appointment_id", "from_status", "to_status", "actor_id", "reason", "occurred_at").
		From("appointment_transitions").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("occurred_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	transitions := make([]*domain.Transition, 0)
	for rows.Next() {
		var t domain.Transition
		if err := rows.Scan(&t.ID, &t.AppointmentID, &t.From, &t.To, &t.ActorID, &t.Reason, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}
		t.OccurredAt = t.OccurredAt.UTC()
		transitions = append(transitions, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return transitions, nil
}
