package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/availability"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-InkBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-InkBookingService/internal/service/policy"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-InkBookingService/pkg/logger"
	"github.com/m04kA/SMC-InkBookingService/pkg/types"
)

// Понедельник, 08:00 UTC
var now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event domain.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) types() []domain.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.EventType, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

type failingRecorder struct {
	*memory.TransitionRepository
	err error
}

func (r *failingRecorder) Append(ctx context.Context, t *domain.Transition) error {
	if r.err != nil {
		return r.err
	}
	return r.TransitionRepository.Append(ctx, t)
}

// failingCommit выполняет fn и затем имитирует ошибку фиксации транзакции
type failingCommit struct {
	inner TransactionManager
}

var errCommit = errors.New("commit failed")

func (m failingCommit) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.inner.DoSerializable(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return errCommit
	})
}

type stuckLocker struct{}

func (stuckLocker) Lock(ctx context.Context, _ int64) (lock.Unlock, error) {
	<-ctx.Done()
	return nil, errors.Join(lock.ErrLockTimeout, ctx.Err())
}

func (stuckLocker) Name() string { return "stuck" }

type fixture struct {
	engine       *Engine
	appointments *memory.AppointmentRepository
	resources    *memory.ResourceRepository
	transitions  *memory.TransitionRepository
	index        *availability.Index
	notifier     *recordingNotifier
	clock        *fixedClock
	metrics      Metrics
	resourceID   int64
	// второй мастер со своей ставкой 200
	otherResourceID int64
}

type fixtureOption func(f *fixture, recorder *TransitionRecorder, tx *TransactionManager, locker *Locker, opts *Options)

func workday(open, closing, breakStart, breakEnd string) domain.DaySchedule {
	mustTime := func(s string) types.TimeString {
		ts, err := types.NewTimeStringFromString(s)
		if err != nil {
			panic(err)
		}
		return ts
	}
	day := domain.DaySchedule{IsOpen: true, OpenTime: mustTime(open), CloseTime: mustTime(closing)}
	if breakStart != "" {
		bs, be := mustTime(breakStart), mustTime(breakEnd)
		day.BreakStart, day.BreakEnd = &bs, &be
	}
	return day
}

func newFixture(t *testing.T, options ...fixtureOption) *fixture {
	t.Helper()

	calc, err := pricing.NewCalculator(domain.PricingConfig{
		Profiles: []domain.SizeComplexityProfile{
			{Size: "medium", Placement: "arm", BaseHours: dec("1"), SizeFactor: dec("1"), PlacementFactor: dec("1")},
		},
		ComplexityFactors: map[int]decimal.Decimal{1: dec("1"), 2: dec("1.25"), 3: dec("1.5"), 4: dec("1.75"), 5: dec("2")},
		MinComplexity:     1,
		MaxComplexity:     5,
		BaseHourlyRate:    dec("150"),
		DepositPercentage: dec("0.20"),
	})
	require.NoError(t, err)

	evaluator, err := policy.NewEvaluator([]domain.CancellationPolicyTier{
		{MinNoticeHours: 48, FeePercentage: dec("0"), DepositRefundable: true, AllowReschedule: true},
		{MinNoticeHours: 24, FeePercentage: dec("0.25"), AllowReschedule: true},
		{MinNoticeHours: 0, FeePercentage: dec("0.5"), AllowReschedule: false},
	})
	require.NoError(t, err)

	f := &fixture{
		appointments: memory.NewAppointmentRepository(),
		resources:    memory.NewResourceRepository(),
		transitions:  memory.NewTransitionRepository(),
		index:        availability.NewIndex(),
		notifier:     &recordingNotifier{},
		clock:        &fixedClock{t: now},
	}

	var hours domain.WorkingHours
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday} {
		hours.Set(d, workday("10:00", "20:00", "14:00", "15:00"))
	}
	resource, err := f.resources.Create(context.Background(), &domain.Resource{Name: "Mira", WorkingHours: hours, Active: true})
	require.NoError(t, err)
	f.resourceID = resource.ID

	rate := dec("200")
	other, err := f.resources.Create(context.Background(), &domain.Resource{Name: "Oskar", WorkingHours: hours, HourlyRate: &rate, Active: true})
	require.NoError(t, err)
	f.otherResourceID = other.ID

	var (
		recorder TransitionRecorder = f.transitions
		tx       TransactionManager = memory.NewTxManager()
		locker   Locker             = lock.NewLocalLocker(16)
		opts                        = Options{LockTimeout: 200 * time.Millisecond}
	)
	for _, opt := range options {
		opt(f, &recorder, &tx, &locker, &opts)
	}

	f.engine = NewEngine(f.appointments, f.resources, recorder, f.index, locker,
		calc, evaluator, f.notifier, tx, f.clock, f.metrics, logger.Nop(), opts)
	return f
}

func (f *fixture) request(start time.Time) CreateRequest {
	return CreateRequest{
		ResourceID:      f.resourceID,
		CustomerID:      77,
		Start:           start,
		End:             start.Add(90 * time.Minute),
		Size:            "medium",
		Placement:       "arm",
		ComplexityLevel: 3,
	}
}

func (f *fixture) create(t *testing.T, start time.Time) *domain.Appointment {
	t.Helper()
	appt, err := f.engine.Create(context.Background(), f.request(start))
	require.NoError(t, err)
	return appt
}

func TestCreate(t *testing.T) {
	f := newFixture(t)

	appt := f.create(t, at(2, 10, 0))

	assert.Equal(t, domain.StatusScheduled, appt.Status)
	assert.True(t, dec("225").Equal(appt.Price), appt.Price.String())
	assert.True(t, dec("45").Equal(appt.DepositAmount), appt.DepositAmount.String())
	assert.True(t, dec("1.5").Equal(appt.EstimatedHours))
	assert.False(t, appt.DepositPaid)

	conflictID, ok := f.index.HasConflict(f.resourceID, at(2, 11, 0), at(2, 11, 30), nil)
	assert.True(t, ok)
	assert.Equal(t, appt.ID, conflictID)

	history, err := f.engine.History(context.Background(), appt.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].From)
	assert.Equal(t, domain.StatusScheduled, history[0].To)

	assert.Equal(t, []domain.EventType{domain.EventAppointmentCreated}, f.notifier.types())
}

func TestCreate_UsesResourceHourlyRate(t *testing.T) {
	f := newFixture(t)

	req := f.request(at(2, 10, 0))
	req.ResourceID = f.otherResourceID
	appt, err := f.engine.Create(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, dec("300").Equal(appt.Price), appt.Price.String())
	assert.True(t, dec("60").Equal(appt.DepositAmount), appt.DepositAmount.String())
}

func TestCreate_SlotConflict(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, at(2, 10, 0))

	_, err := f.engine.Create(context.Background(), f.request(at(2, 11, 0)))
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflict *SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.AppointmentID)

	// Полуоткрытые интервалы: 11:30 начинается ровно в конце первой записи
	f.create(t, at(2, 11, 30))
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		mutate  func(r *CreateRequest)
		wantErr error
	}{
		{
			name:    "end before start",
			mutate:  func(r *CreateRequest) { r.End = r.Start.Add(-time.Minute) },
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "empty interval",
			mutate:  func(r *CreateRequest) { r.End = r.Start },
			wantErr: ErrInvalidInterval,
		},
		{
			name: "start in the past",
			mutate: func(r *CreateRequest) {
				r.Start = now.Add(-2 * time.Hour)
				r.End = now.Add(-time.Hour)
			},
			wantErr: ErrInvalidInterval,
		},
		{
			name:    "missing customer",
			mutate:  func(r *CreateRequest) { r.CustomerID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown resource",
			mutate:  func(r *CreateRequest) { r.ResourceID = 999 },
			wantErr: ErrResourceNotFound,
		},
		{
			name: "before opening",
			mutate: func(r *CreateRequest) {
				r.Start = at(2, 9, 0)
				r.End = at(2, 10, 30)
			},
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name: "overlaps break",
			mutate: func(r *CreateRequest) {
				r.Start = at(2, 13, 30)
				r.End = at(2, 15, 0)
			},
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name: "closed on sunday",
			mutate: func(r *CreateRequest) {
				r.Start = at(8, 11, 0)
				r.End = at(8, 12, 0)
			},
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name:    "unknown profile",
			mutate:  func(r *CreateRequest) { r.Placement = "ribs" },
			wantErr: ErrUnknownProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request(at(2, 16, 0))
			tt.mutate(&req)

			_, err := f.engine.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.notifier.types())
}

func TestCreate_MinBookingNotice(t *testing.T) {
	f := newFixture(t, func(_ *fixture, _ *TransitionRecorder, _ *TransactionManager, _ *Locker, opts *Options) {
		opts.MinBookingNotice = 4 * time.Hour
	})

	_, err := f.engine.Create(context.Background(), f.request(at(2, 10, 0)))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	f.create(t, at(2, 12, 0))
}

func TestCreate_ConcurrentRequestsForSameSlot(t *testing.T) {
	f := newFixture(t)

	const workers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.engine.Create(context.Background(), f.request(at(3, 10, 0)))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)

	list, err := f.engine.ListByResource(context.Background(), domain.AppointmentsFilter{ResourceID: f.resourceID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_RollsBackWhenAuditFails(t *testing.T) {
	f := newFixture(t, func(f *fixture, recorder *TransitionRecorder, _ *TransactionManager, _ *Locker, _ *Options) {
		*recorder = &failingRecorder{TransitionRepository: f.transitions, err: errors.New("disk full")}
	})

	_, err := f.engine.Create(context.Background(), f.request(at(2, 10, 0)))
	require.ErrorIs(t, err, ErrInternal)

	list, err := f.appointments.ListByResource(context.Background(), domain.AppointmentsFilter{ResourceID: f.resourceID})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, busy := f.index.HasConflict(f.resourceID, at(2, 10, 0), at(2, 11, 30), nil)
	assert.False(t, busy)
	assert.Empty(t, f.notifier.types())
}

func TestCreate_FailedCommitKeepsSlotFreeOnBothResources(t *testing.T) {
	var recorder *failingRecorder
	f := newFixture(t, func(f *fixture, r *TransitionRecorder, _ *TransactionManager, _ *Locker, _ *Options) {
		recorder = &failingRecorder{TransitionRepository: f.transitions, err: errors.New("disk full")}
		*r = recorder
	})
	ctx := context.Background()

	_, err := f.engine.Create(ctx, f.request(at(2, 10, 0)))
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, f.index.Len(f.resourceID))

	recorder.err = nil

	// Тот же слот у другого мастера
	other := f.request(at(2, 10, 0))
	other.ResourceID = f.otherResourceID
	otherAppt, err := f.engine.Create(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, f.otherResourceID, otherAppt.ResourceID)

	// И у исходного мастера слот по-прежнему свободен
	appt := f.create(t, at(2, 10, 0))
	assert.Equal(t, f.resourceID, appt.ResourceID)
	assert.Equal(t, 1, f.index.Len(f.resourceID))
	assert.Equal(t, 1, f.index.Len(f.otherResourceID))
}

func TestCreate_RevertsIndexWhenCommitFails(t *testing.T) {
	f := newFixture(t, func(_ *fixture, _ *TransitionRecorder, tx *TransactionManager, _ *Locker, _ *Options) {
		*tx = failingCommit{inner: *tx}
	})

	_, err := f.engine.Create(context.Background(), f.request(at(2, 10, 0)))
	require.ErrorIs(t, err, ErrInternal)

	_, busy := f.index.HasConflict(f.resourceID, at(2, 10, 0), at(2, 11, 30), nil)
	assert.False(t, busy)

	list, err := f.appointments.ListByResource(context.Background(), domain.AppointmentsFilter{ResourceID: f.resourceID})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_LockTimeout(t *testing.T) {
	f := newFixture(t, func(_ *fixture, _ *TransitionRecorder, _ *TransactionManager, locker *Locker, opts *Options) {
		*locker = stuckLocker{}
		opts.LockTimeout = 20 * time.Millisecond
	})

	_, err := f.engine.Create(context.Background(), f.request(at(2, 10, 0)))
	assert.ErrorIs(t, err, ErrResourceBusy)
}

type countingMetrics struct {
	noopMetrics
	mu            sync.Mutex
	notifications map[string]int
}

func (m *countingMetrics) IncNotification(sink, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notifications == nil {
		m.notifications = make(map[string]int)
	}
	m.notifications[sink+"/"+status]++
}

func (m *countingMetrics) get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifications[key]
}

func TestCreate_NotifierFailureIsNotReturned(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantFailed int
	}{
		{name: "sink error", err: errors.New("broker down"), wantFailed: 1},
		{name: "queue full counted by queue", err: fmt.Errorf("wrapped: %w", notifier.ErrQueueFull), wantFailed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &countingMetrics{}
			f := newFixture(t, func(f *fixture, _ *TransitionRecorder, _ *TransactionManager, _ *Locker, _ *Options) {
				f.metrics = m
			})
			f.notifier.err = tt.err

			appt := f.create(t, at(2, 10, 0))
			assert.NotEqual(t, uuid.Nil, appt.ID)
			assert.Equal(t, tt.wantFailed, m.get("engine/failed"))
		})
	}
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	// Четверг: больше 48 часов до начала
	appt := f.create(t, at(5, 10, 0))
	actor := int64(5)

	moved, err := f.engine.Reschedule(context.Background(), appt.ID, RescheduleRequest{
		Start:   at(5, 16, 0),
		End:     at(5, 18, 0),
		ActorID: &actor,
	})
	require.NoError(t, err)

	assert.Equal(t, at(5, 16, 0), moved.StartTime)
	assert.Equal(t, at(5, 18, 0), moved.EndTime)
	assert.True(t, appt.Price.Equal(moved.Price), "price stays with the tattoo")

	_, oldBusy := f.index.HasConflict(f.resourceID, at(5, 10, 0), at(5, 11, 30), nil)
	assert.False(t, oldBusy)
	_, newBusy := f.index.HasConflict(f.resourceID, at(5, 17, 0), at(5, 17, 30), nil)
	assert.True(t, newBusy)

	history, err := f.engine.History(context.Background(), appt.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[1].Reason)
	assert.Equal(t, "rescheduled", *history[1].Reason)
	assert.Equal(t, &actor, history[1].ActorID)

	assert.Equal(t, []domain.EventType{domain.EventAppointmentCreated, domain.EventAppointmentRescheduled}, f.notifier.types())
}

func TestReschedule_OverlapWithItselfAllowed(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(5, 10, 0))

	_, err := f.engine.Reschedule(context.Background(), appt.ID, RescheduleRequest{Start: at(5, 10, 30), End: at(5, 12, 0)})
	require.NoError(t, err)
}

func TestReschedule_Conflict(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, at(5, 10, 0))
	second := f.create(t, at(5, 16, 0))

	_, err := f.engine.Reschedule(context.Background(), second.ID, RescheduleRequest{Start: at(5, 11, 0), End: at(5, 12, 30)})
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflict *SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.AppointmentID)

	stored, err := f.engine.Get(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, at(5, 16, 0), stored.StartTime)

	interval, ok := f.index.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, at(5, 16, 0), interval.Start)
}

func TestReschedule_RestoresIndexWhenCommitFails(t *testing.T) {
	var failing bool
	f := newFixture(t, func(_ *fixture, _ *TransitionRecorder, tx *TransactionManager, _ *Locker, _ *Options) {
		inner := *tx
		*tx = switchTx{inner: inner, fail: &failing}
	})
	appt := f.create(t, at(5, 10, 0))

	failing = true
	_, err := f.engine.Reschedule(context.Background(), appt.ID, RescheduleRequest{Start: at(5, 16, 0), End: at(5, 17, 30)})
	require.ErrorIs(t, err, ErrInternal)

	interval, ok := f.index.Get(appt.ID)
	require.True(t, ok)
	assert.Equal(t, at(5, 10, 0), interval.Start)

	stored, err := f.engine.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, at(5, 10, 0), stored.StartTime)
}

type switchTx struct {
	inner TransactionManager
	fail  *bool
}

func (m switchTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if *m.fail {
		return failingCommit{inner: m.inner}.DoSerializable(ctx, fn)
	}
	return m.inner.DoSerializable(ctx, fn)
}

func TestReschedule_NotAllowedCloseToStart(t *testing.T) {
	f := newFixture(t)
	// Через 2 часа: последний уровень политики запрещает перенос
	appt := f.create(t, at(2, 10, 0))

	_, err := f.engine.Reschedule(context.Background(), appt.ID, RescheduleRequest{Start: at(4, 10, 0), End: at(4, 11, 30)})
	assert.ErrorIs(t, err, ErrRescheduleNotAllowed)
}

func TestReschedule_RequiresHoldingStatus(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(5, 10, 0))

	_, err := f.engine.Cancel(context.Background(), appt.ID, CancelRequest{ReasonCode: "client_request"})
	require.NoError(t, err)

	_, err = f.engine.Reschedule(context.Background(), appt.ID, RescheduleRequest{Start: at(5, 16, 0), End: at(5, 17, 30)})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitions_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.create(t, at(2, 10, 0))

	confirmed, err := f.engine.Confirm(ctx, appt.ID, TransitionRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	assert.True(t, confirmed.DepositPaid)

	started, err := f.engine.Start(ctx, appt.ID, TransitionRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, started.Status)

	_, busy := f.index.HasConflict(f.resourceID, at(2, 10, 0), at(2, 11, 30), nil)
	assert.True(t, busy, "in progress still holds the slot")

	completed, err := f.engine.Complete(ctx, appt.ID, TransitionRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)

	_, busy = f.index.HasConflict(f.resourceID, at(2, 10, 0), at(2, 11, 30), nil)
	assert.False(t, busy)

	_, err = f.engine.Confirm(ctx, appt.ID, TransitionRequest{})
	assert.ErrorIs(t, err, ErrTerminalState)

	history, err := f.engine.History(ctx, appt.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)

	assert.Equal(t, []domain.EventType{
		domain.EventAppointmentCreated,
		domain.EventAppointmentConfirmed,
		domain.EventAppointmentStarted,
		domain.EventAppointmentCompleted,
	}, f.notifier.types())
}

func TestTransitions_Invalid(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(2, 10, 0))

	_, err := f.engine.Complete(context.Background(), appt.ID, TransitionRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.engine.Transition(context.Background(), appt.ID, domain.StatusCancelled, TransitionRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.engine.Confirm(context.Background(), uuid.New(), TransitionRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMarkNoShow_FreesSlot(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(2, 10, 0))

	_, err := f.engine.MarkNoShow(context.Background(), appt.ID, TransitionRequest{})
	require.NoError(t, err)

	f.create(t, at(2, 10, 30))
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name        string
		start       time.Time
		confirm     bool
		wantFee     string
		wantRefund  string
		wantRefunds bool
	}{
		{name: "more than 48h with deposit paid", start: at(5, 10, 0), confirm: true, wantFee: "0", wantRefund: "45", wantRefunds: true},
		{name: "more than 48h without deposit", start: at(5, 10, 0), wantFee: "0", wantRefund: "0", wantRefunds: true},
		{name: "between 24h and 48h", start: at(3, 16, 0), confirm: true, wantFee: "56.25", wantRefund: "0"},
		{name: "less than 24h", start: at(2, 16, 0), wantFee: "112.5", wantRefund: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			appt := f.create(t, tt.start)
			if tt.confirm {
				_, err := f.engine.Confirm(ctx, appt.ID, TransitionRequest{})
				require.NoError(t, err)
			}

			result, err := f.engine.Cancel(ctx, appt.ID, CancelRequest{ReasonCode: "client_request"})
			require.NoError(t, err)

			assert.Equal(t, domain.StatusCancelled, result.Appointment.Status)
			assert.True(t, dec(tt.wantFee).Equal(result.Outcome.FeeAmount), result.Outcome.FeeAmount.String())
			assert.True(t, dec(tt.wantRefund).Equal(result.Outcome.RefundAmount), result.Outcome.RefundAmount.String())
			assert.Equal(t, tt.wantRefunds, result.Outcome.DepositRefundable)

			require.NotNil(t, result.Appointment.CancelledAt)
			assert.Equal(t, now, *result.Appointment.CancelledAt)
			require.NotNil(t, result.Appointment.CancellationReasonCode)
			assert.Equal(t, "client_request", *result.Appointment.CancellationReasonCode)
			require.NotNil(t, result.Appointment.CancellationFee)
			assert.True(t, result.Outcome.FeeAmount.Equal(*result.Appointment.CancellationFee))

			_, busy := f.index.HasConflict(f.resourceID, tt.start, tt.start.Add(90*time.Minute), nil)
			assert.False(t, busy)

			_, err = f.engine.Cancel(ctx, appt.ID, CancelRequest{ReasonCode: "client_request"})
			assert.ErrorIs(t, err, ErrAlreadyCancelled)
		})
	}
}

func TestScenario_CancelFreesSlotForConflictingBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A: четверг 10:00-11:30, больше 48 часов до начала
	first := f.create(t, at(5, 10, 0))

	// B пересекается с A
	second := f.request(at(5, 11, 0))
	second.CustomerID = 78
	_, err := f.engine.Create(ctx, second)
	require.ErrorIs(t, err, ErrSlotConflict)
	var conflict *SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.AppointmentID)

	result, err := f.engine.Cancel(ctx, first.ID, CancelRequest{ReasonCode: "client_request"})
	require.NoError(t, err)
	assert.True(t, result.Outcome.FeeAmount.IsZero(), result.Outcome.FeeAmount.String())
	assert.True(t, result.Outcome.DepositRefundable)

	booked, err := f.engine.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, booked.Status)
	assert.Equal(t, int64(78), booked.CustomerID)

	conflictID, ok := f.index.HasConflict(f.resourceID, at(5, 11, 0), at(5, 11, 30), nil)
	require.True(t, ok)
	assert.Equal(t, booked.ID, conflictID)
}

func TestCancel_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.create(t, at(2, 10, 0))

	_, err := f.engine.Cancel(ctx, appt.ID, CancelRequest{ReasonCode: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.engine.Confirm(ctx, appt.ID, TransitionRequest{})
	require.NoError(t, err)
	_, err = f.engine.Start(ctx, appt.ID, TransitionRequest{})
	require.NoError(t, err)

	_, err = f.engine.Cancel(ctx, appt.ID, CancelRequest{ReasonCode: "client_request"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.engine.Complete(ctx, appt.ID, TransitionRequest{})
	require.NoError(t, err)

	_, err = f.engine.Cancel(ctx, appt.ID, CancelRequest{ReasonCode: "client_request"})
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestCancel_AfterStartUsesLastTier(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(2, 10, 0))

	f.clock.Set(at(2, 10, 30))
	result, err := f.engine.Cancel(context.Background(), appt.ID, CancelRequest{ReasonCode: "late"})
	require.NoError(t, err)
	assert.Less(t, result.Outcome.NoticeHours, 0.0)
	assert.True(t, dec("0.5").Equal(result.Outcome.FeePercentage))
}

func TestQuoteCancellation_DoesNotMutate(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(3, 16, 0))

	outcome, err := f.engine.QuoteCancellation(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.True(t, dec("56.25").Equal(outcome.FeeAmount), outcome.FeeAmount.String())
	assert.True(t, outcome.AllowReschedule)

	stored, err := f.engine.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusScheduled, stored.Status)
	assert.Nil(t, stored.CancelledAt)

	_, err = f.engine.QuoteCancellation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListByResource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kept := f.create(t, at(2, 10, 0))
	cancelled := f.create(t, at(2, 16, 0))
	_, err := f.engine.Cancel(ctx, cancelled.ID, CancelRequest{ReasonCode: "client_request"})
	require.NoError(t, err)

	holding, err := f.engine.ListByResource(ctx, domain.AppointmentsFilter{ResourceID: f.resourceID})
	require.NoError(t, err)
	require.Len(t, holding, 1)
	assert.Equal(t, kept.ID, holding[0].ID)

	all, err := f.engine.ListByResource(ctx, domain.AppointmentsFilter{ResourceID: f.resourceID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.engine.ListByResource(ctx, domain.AppointmentsFilter{ResourceID: 999})
	assert.ErrorIs(t, err, ErrResourceNotFound)

	from, to := at(3, 0, 0), at(2, 0, 0)
	_, err = f.engine.ListByResource(ctx, domain.AppointmentsFilter{ResourceID: f.resourceID, From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestWarmUp(t *testing.T) {
	f := newFixture(t)
	appt := f.create(t, at(2, 10, 0))

	restarted := availability.NewIndex()
	f.engine.index = restarted

	loaded, err := f.engine.WarmUp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	conflictID, ok := restarted.HasConflict(f.resourceID, at(2, 10, 0), at(2, 10, 30), nil)
	assert.True(t, ok)
	assert.Equal(t, appt.ID, conflictID)
}

func TestRefreshOnLock_SeesAppointmentsFromOtherInstances(t *testing.T) {
	f := newFixture(t, func(_ *fixture, _ *TransitionRecorder, _ *TransactionManager, _ *Locker, opts *Options) {
		opts.RefreshOnLock = true
	})

	// Запись другого инстанса: есть в хранилище, но не в локальном индексе
	other := &domain.Appointment{
		ID:         uuid.New(),
		ResourceID: f.resourceID,
		CustomerID: 1,
		StartTime:  at(2, 10, 0),
		EndTime:    at(2, 11, 0),
		Status:     domain.StatusScheduled,
		Price:      dec("100"),
	}
	_, err := f.appointments.Create(context.Background(), other)
	require.NoError(t, err)

	_, err = f.engine.Create(context.Background(), f.request(at(2, 10, 30)))
	require.ErrorIs(t, err, ErrSlotConflict)

	var conflict *SlotConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, other.ID, conflict.AppointmentID)
}
