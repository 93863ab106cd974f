package keylock

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrTimeout блокировка не получена за отведенное время
	ErrTimeout = errors.New("keylock: acquire timeout")
)

// ReleaseFunc освобождает блокировку. Повторный вызов безопасен
type ReleaseFunc func()

// Locker взаимное исключение по строковому ключу
type Locker interface {
	Acquire(ctx context.Context, key string, timeout time.Duration) (ReleaseFunc, error)
}

type entry struct {
	ch   chan struct{}
	refs int
}

// Local блокировки по ключу внутри одного процесса.
// Разные ключи не блокируют друг друга, записи удаляются, когда ключ никем не занят
type Local struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewLocal() *Local {
	return &Local{entries: make(map[string]*entry)}
}

// Acquire ждет освобождения ключа не дольше timeout или до отмены ctx
func (l *Local) Acquire(ctx context.Context, key string, timeout time.Duration) (ReleaseFunc, error) {
	e := l.ref(key)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
	case <-timer.C:
		l.unref(key)
		return nil, ErrTimeout
	case <-ctx.Done():
		l.unref(key)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.unref(key)
		})
	}, nil
}

// Len количество ключей, которые сейчас заняты или ожидаются
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Local) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Local) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
