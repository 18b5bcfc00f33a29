package lock

import (
	"context"
	"sync"
	"time"
)

// keyed семафоры: канал с буфером 1 на каждый ключ, запись в канал - захват
var (
	mu    sync.Mutex
	slots = map[string]*slot{}
)

type slot struct {
	ch      chan struct{}
	waiters int
}

func acquireSlot(key string) *slot {
	mu.Lock()
	defer mu.Unlock()
	s, ok := slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		slots[key] = s
	}
	s.waiters++
	return s
}

func releaseSlot(key string, s *slot) {
	mu.Lock()
	defer mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(slots, key)
	}
}

// WithDelay выполняет safeCode под блокировкой key, ожидая ее не дольше wait.
// success=false если блокировку не удалось получить за wait или контекст завершен.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	s := acquireSlot(key)
	defer releaseSlot(key, s)

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case s.ch <- struct{}{}:
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, nil
	}
	defer func() { <-s.ch }()
	return true, safeCode()
}

// CreditLockKey ключ блокировки лимита сотрудника, общий для всех операций с лимитом
func CreditLockKey(collaboratorID string) string {
	return "credit:" + collaboratorID
}
