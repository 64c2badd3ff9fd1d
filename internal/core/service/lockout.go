package service

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultMaxAttempts = 5
	defaultLockWindow  = 5 * time.Minute
)

type attemptRecord struct {
	failures    int
	lockedUntil time.Time
}

// Lockout counts consecutive sign-in failures per key in memory. Counters
// are lost on restart and expire one window after the last failure.
type Lockout struct {
	mu          sync.Mutex
	records     *cache.Cache
	maxAttempts int
	window      time.Duration
}

// NewLockout returns a Lockout. Non-positive arguments select the defaults.
func NewLockout(maxAttempts int, window time.Duration) *Lockout {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultLockWindow
	}
	return &Lockout{
		records:     cache.New(window, 2*window),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Check reports whether key is locked and for how long.
func (l *Lockout) Check(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.get(key)
	if !ok || rec.lockedUntil.IsZero() {
		return 0, false
	}
	left := time.Until(rec.lockedUntil)
	if left <= 0 {
		l.records.Delete(key)
		return 0, false
	}
	return left, true
}

// Fail records a failure. It returns the attempts left before the lock and,
// when this failure triggered the lock, its duration.
func (l *Lockout) Fail(key string) (int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, _ := l.get(key)
	rec.failures++
	if rec.failures >= l.maxAttempts {
		rec.lockedUntil = time.Now().Add(l.window)
		l.records.Set(key, rec, l.window)
		return 0, l.window
	}
	l.records.Set(key, rec, l.window)
	return l.maxAttempts - rec.failures, 0
}

// Reset forgets all failures for key.
func (l *Lockout) Reset(key string) {
	l.records.Delete(key)
}

func (l *Lockout) get(key string) (attemptRecord, bool) {
	v, ok := l.records.Get(key)
	if !ok {
		return attemptRecord{}, false
	}
	rec, ok := v.(attemptRecord)
	return rec, ok
}
