package lock

import (
	"context"
	"errors"
	"hash/maphash"
)

// ErrLockTimeout возвращается, если блокировку не удалось взять до отмены контекста
var ErrLockTimeout = errors.New("lock: could not acquire resource lock")

// Unlock освобождает взятую блокировку
type Unlock func()

// Locker блокировка мастера на время проверки и фиксации записи
type Locker interface {
	Lock(ctx context.Context, resourceID int64) (Unlock, error)
	Name() string
}

// DefaultStripes количество полос у LocalLocker
const DefaultStripes = 256

// LocalLocker блокировки в пределах процесса.
// Мастера распределяются по полосам, разные полосы не мешают друг другу.
type LocalLocker struct {
	stripes []chan struct{}
	seed    maphash.Seed
}

// NewLocalLocker создает LocalLocker с заданным количеством полос
func NewLocalLocker(stripes int) *LocalLocker {
	if stripes <= 0 {
		stripes = DefaultStripes
	}
	l := &LocalLocker{
		stripes: make([]chan struct{}, stripes),
		seed:    maphash.MakeSeed(),
	}
	for i := range l.stripes {
		l.stripes[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock ждет освобождения полосы мастера или отмены контекста
func (l *LocalLocker) Lock(ctx context.Context, resourceID int64) (Unlock, error) {
	stripe := l.stripes[l.stripeFor(resourceID)]

	select {
	case stripe <- struct{}{}:
		return func() { <-stripe }, nil
	case <-ctx.Done():
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}
}

func (l *LocalLocker) Name() string {
	return "local"
}

func (l *LocalLocker) stripeFor(resourceID int64) int {
	var h maphash.Hash
	h.SetSeed(l.seed)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(resourceID >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return int(h.Sum64() % uint64(len(l.stripes)))
}
