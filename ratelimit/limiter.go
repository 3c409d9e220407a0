// Package ratelimit counts failed authentication attempts per identifier and locks
// an identifier out after repeated failures.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts   = 5
	DefaultLockoutWindow = 15 * time.Minute
	DefaultResetWindow   = 15 * time.Minute
)

// LockStatus is the answer to IsLockedOut. RemainingTime is in whole seconds.
type LockStatus struct {
	Locked        bool `json:"locked"`
	RemainingTime int  `json:"remainingTime,omitempty"`
}

// AttemptResult describes the state after a failed attempt. LockoutTime is in
// seconds and only set when the attempt caused (or hit) a lock.
type AttemptResult struct {
	AttemptsLeft int  `json:"attemptsLeft"`
	Locked       bool `json:"locked"`
	LockoutTime  int  `json:"lockoutTime,omitempty"`
}

type Status struct {
	Attempts     int `json:"attempts"`
	AttemptsLeft int `json:"attemptsLeft"`
}

// Limiter is safe for concurrent use. Identifiers are independent of each other:
// locking one student ID never affects another.
type Limiter struct {
	mu            sync.Mutex
	store         Store
	maxAttempts   int
	lockoutWindow time.Duration
	resetWindow   time.Duration
	nowFunc       func() time.Time
}

type Option func(*Limiter)

func WithNowFunc(now func() time.Time) Option {
	return func(l *Limiter) {
		l.nowFunc = now
	}
}

func WithMaxAttempts(n int) Option {
	return func(l *Limiter) {
		l.maxAttempts = n
	}
}

func WithLockoutWindow(d time.Duration) Option {
	return func(l *Limiter) {
		l.lockoutWindow = d
	}
}

func WithResetWindow(d time.Duration) Option {
	return func(l *Limiter) {
		l.resetWindow = d
	}
}

// New creates a limiter backed by store. A nil store gets an in-memory one.
func New(store Store, options ...Option) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	l := &Limiter{
		store:         store,
		maxAttempts:   DefaultMaxAttempts,
		lockoutWindow: DefaultLockoutWindow,
		resetWindow:   DefaultResetWindow,
		nowFunc:       time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.maxAttempts <= 0 {
		l.maxAttempts = DefaultMaxAttempts
	}
	return l
}

// MaxAttempts is the number of failures that triggers a lock.
func (l *Limiter) MaxAttempts() int {
	return l.maxAttempts
}

// IsLockedOut reports whether id is currently locked. An expired lock is removed
// together with its record.
func (l *Limiter) IsLockedOut(id string) LockStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.store.Get(id)
	if !ok || rec.LockedUntil == nil {
		return LockStatus{}
	}

	now := l.nowFunc()
	if !now.Before(*rec.LockedUntil) {
		l.store.Delete(id)
		return LockStatus{}
	}
	return LockStatus{Locked: true, RemainingTime: ceilSeconds(rec.LockedUntil.Sub(now))}
}

// RecordFailedAttempt counts one failure for id. A failure history older than the
// reset window with no active lock starts over at one.
func (l *Limiter) RecordFailedAttempt(id string) AttemptResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	rec, ok := l.store.Get(id)

	switch {
	case ok && rec.LockedUntil != nil && now.Before(*rec.LockedUntil):
		// Still locked: the lock is not extended by further failures.
		return AttemptResult{Locked: true, LockoutTime: ceilSeconds(rec.LockedUntil.Sub(now))}
	case !ok, rec.LockedUntil != nil, now.Sub(rec.FirstAttempt) > l.resetWindow:
		rec = Record{Count: 1, FirstAttempt: now}
	default:
		rec.Count++
	}

	if rec.Count >= l.maxAttempts {
		lockedUntil := now.Add(l.lockoutWindow)
		rec.LockedUntil = &lockedUntil
		l.store.Put(id, rec)
		return AttemptResult{Locked: true, LockoutTime: ceilSeconds(l.lockoutWindow)}
	}

	l.store.Put(id, rec)
	return AttemptResult{AttemptsLeft: l.maxAttempts - rec.Count}
}

// ResetAttempts forgets all failures for id. Call it after a successful login.
func (l *Limiter) ResetAttempts(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Delete(id)
}

// AttemptStatus is a read-only snapshot; it does not clear expired locks.
func (l *Limiter) AttemptStatus(id string) Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.store.Get(id)
	if !ok {
		return Status{AttemptsLeft: l.maxAttempts}
	}
	left := l.maxAttempts - rec.Count
	if left < 0 {
		left = 0
	}
	return Status{Attempts: rec.Count, AttemptsLeft: left}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
