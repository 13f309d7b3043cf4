package availability

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

const btreeDegree = 16

// Interval занятый промежуток [Start, End) мастера
type Interval struct {
	AppointmentID uuid.UUID
	ResourceID    int64
	Start         time.Time
	End           time.Time
}

func lessInterval(a, b Interval) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	return bytes.Compare(a.AppointmentID[:], b.AppointmentID[:]) < 0
}

// bucket интервалы одного мастера. Интервалы внутри не пересекаются:
// Insert и Update отказывают при пересечении, поэтому при сортировке
// по началу концы тоже идут по возрастанию.
type bucket struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[Interval]
	byID map[uuid.UUID]Interval
}

func newBucket() *bucket {
	return &bucket{
		tree: btree.NewG[Interval](btreeDegree, lessInterval),
		byID: make(map[uuid.UUID]Interval),
	}
}

// conflict ищет пересечение с [start, end). Из-за непересекаемости
// достаточно проверить ближайший слева от end интервал (и еще один,
// если ближайший исключен).
func (b *bucket) conflict(start, end time.Time, exclude *uuid.UUID) (uuid.UUID, bool) {
	var (
		found  uuid.UUID
		hasHit bool
	)

	b.tree.DescendLessOrEqual(Interval{Start: end}, func(it Interval) bool {
		if !it.Start.Before(end) {
			return true
		}
		if exclude != nil && it.AppointmentID == *exclude {
			return true
		}
		if it.End.After(start) {
			found, hasHit = it.AppointmentID, true
		}
		return false
	})

	return found, hasHit
}

func (b *bucket) insert(it Interval) {
	b.tree.ReplaceOrInsert(it)
	b.byID[it.AppointmentID] = it
}

func (b *bucket) remove(id uuid.UUID) (Interval, bool) {
	it, ok := b.byID[id]
	if !ok {
		return Interval{}, false
	}
	b.tree.Delete(it)
	delete(b.byID, id)
	return it, true
}

// Index индекс занятости мастеров в памяти.
// У каждого мастера свой мьютекс, операции по разным мастерам не блокируют друг друга.
type Index struct {
	mu      sync.RWMutex // только поиск/создание бакетов
	buckets map[int64]*bucket
	owners  sync.Map // uuid.UUID -> int64
}

// NewIndex создает пустой индекс
func NewIndex() *Index {
	return &Index{buckets: make(map[int64]*bucket)}
}

func (x *Index) bucketFor(resourceID int64, create bool) *bucket {
	x.mu.RLock()
	b, ok := x.buckets[resourceID]
	x.mu.RUnlock()
	if ok || !create {
		return b
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if b, ok = x.buckets[resourceID]; ok {
		return b
	}
	b = newBucket()
	x.buckets[resourceID] = b
	return b
}

// HasConflict проверяет пересечение [start, end) с занятыми интервалами мастера.
// exclude позволяет не учитывать саму переносимую запись.
// Касание границ (конец одной = начало другой) не считается пересечением.
func (x *Index) HasConflict(resourceID int64, start, end time.Time, exclude *uuid.UUID) (uuid.UUID, bool) {
	b := x.bucketFor(resourceID, false)
	if b == nil {
		return uuid.Nil, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.conflict(start, end, exclude)
}

// Insert добавляет интервал записи
func (x *Index) Insert(appointmentID uuid.UUID, resourceID int64, start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}

	b := x.bucketFor(resourceID, true)
	b.mu.Lock()
	defer b.mu.Unlock()

	if conflictID, hit := b.conflict(start, end, nil); hit {
		return fmt.Errorf("%w: conflicts with %s", ErrOverlap, conflictID)
	}
	if owner, loaded := x.owners.LoadOrStore(appointmentID, resourceID); loaded {
		return fmt.Errorf("%w: %s (resource %d)", ErrDuplicate, appointmentID, owner)
	}

	b.insert(Interval{AppointmentID: appointmentID, ResourceID: resourceID, Start: start, End: end})
	return nil
}

// Remove удаляет интервал записи. Возвращает false, если записи не было.
func (x *Index) Remove(appointmentID uuid.UUID) bool {
	owner, ok := x.owners.Load(appointmentID)
	if !ok {
		return false
	}
	b := x.bucketFor(owner.(int64), false)
	if b == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, removed := b.remove(appointmentID); !removed {
		return false
	}
	x.owners.Delete(appointmentID)
	return true
}

// Update переносит интервал записи. Операция атомарна: при пересечении
// старый интервал остается на месте.
func (x *Index) Update(appointmentID uuid.UUID, newStart, newEnd time.Time) error {
	if !newEnd.After(newStart) {
		return ErrInvalidInterval
	}
	owner, ok := x.owners.Load(appointmentID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotIndexed, appointmentID)
	}
	b := x.bucketFor(owner.(int64), false)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrNotIndexed, appointmentID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	old, removed := b.remove(appointmentID)
	if !removed {
		return fmt.Errorf("%w: %s", ErrNotIndexed, appointmentID)
	}

	if conflictID, hit := b.conflict(newStart, newEnd, nil); hit {
		b.insert(old)
		return fmt.Errorf("%w: conflicts with %s", ErrOverlap, conflictID)
	}

	b.insert(Interval{AppointmentID: appointmentID, ResourceID: old.ResourceID, Start: newStart, End: newEnd})
	return nil
}

// Get возвращает интервал записи
func (x *Index) Get(appointmentID uuid.UUID) (Interval, bool) {
	owner, ok := x.owners.Load(appointmentID)
	if !ok {
		return Interval{}, false
	}
	b := x.bucketFor(owner.(int64), false)
	if b == nil {
		return Interval{}, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	it, ok := b.byID[appointmentID]
	return it, ok
}

// Busy возвращает упорядоченные интервалы, пересекающие окно [from, to)
func (x *Index) Busy(resourceID int64, from, to time.Time) []Interval {
	b := x.bucketFor(resourceID, false)
	if b == nil || !to.After(from) {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	startPivot := Interval{Start: from}
	b.tree.DescendLessOrEqual(startPivot, func(it Interval) bool {
		if it.Start.Before(from) && it.End.After(from) {
			startPivot = it
		}
		return false
	})

	var out []Interval
	b.tree.AscendGreaterOrEqual(startPivot, func(it Interval) bool {
		if !it.Start.Before(to) {
			return false
		}
		if it.End.After(from) {
			out = append(out, it)
		}
		return true
	})
	return out
}

// Len возвращает количество занятых интервалов мастера
func (x *Index) Len(resourceID int64) int {
	b := x.bucketFor(resourceID, false)
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tree.Len()
}

// Replace заменяет интервалы мастера набором из хранилища.
// Используется под распределенной блокировкой, когда записи могли создать другие инстансы.
// При пересечениях внутри набора индекс не меняется.
func (x *Index) Replace(resourceID int64, appointments []*domain.Appointment) error {
	fresh := newBucket()
	for _, appt := range appointments {
		if appt.ResourceID != resourceID || !appt.HoldsSlot() {
			continue
		}
		if !appt.EndTime.After(appt.StartTime) {
			return fmt.Errorf("%w: %s", ErrInvalidInterval, appt.ID)
		}
		if _, dup := fresh.byID[appt.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicate, appt.ID)
		}
		if conflictID, hit := fresh.conflict(appt.StartTime, appt.EndTime, nil); hit {
			return fmt.Errorf("%w: %s conflicts with %s", ErrOverlap, appt.ID, conflictID)
		}
		fresh.insert(Interval{
			AppointmentID: appt.ID,
			ResourceID:    resourceID,
			Start:         appt.StartTime,
			End:           appt.EndTime,
		})
	}

	b := x.bucketFor(resourceID, true)
	b.mu.Lock()
	defer b.mu.Unlock()

	for id := range b.byID {
		x.owners.Delete(id)
	}
	for id := range fresh.byID {
		x.owners.Store(id, resourceID)
	}
	b.tree = fresh.tree
	b.byID = fresh.byID
	return nil
}

// Load прогревает индекс записями из хранилища.
// Записи, которые не занимают слот, пропускаются.
func (x *Index) Load(appointments []*domain.Appointment) (int, error) {
	loaded := 0
	for _, appt := range appointments {
		if !appt.HoldsSlot() {
			continue
		}
		if err := x.Insert(appt.ID, appt.ResourceID, appt.StartTime, appt.EndTime); err != nil {
			return loaded, fmt.Errorf("Load - appointment %s: %w", appt.ID, err)
		}
		loaded++
	}
	return loaded, nil
}
