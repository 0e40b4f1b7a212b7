package httpclient

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker state.
type BreakerState uint8

const (
	// BreakerClosed passes requests through and counts failures.
	BreakerClosed BreakerState = iota

	// BreakerOpen rejects requests until the cooldown elapses.
	BreakerOpen

	// BreakerHalfOpen passes requests through; the first success
	// closes the breaker, the first failure reopens it.
	BreakerHalfOpen
)

// String returns the lowercase name of the state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker is a circuit breaker over consecutive failures.
//
// Closed is the normal state. After threshold consecutive failures the
// breaker opens and Allow rejects requests. Once the cooldown elapses
// the breaker half-opens: requests pass again, a success closes the
// breaker, a failure restarts the open period.
type Breaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time
}

// NewBreaker creates a closed breaker that opens after threshold
// consecutive failures and half-opens cooldown later. A threshold
// below 1 is raised to 1.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether a request may proceed, moving an open breaker
// to half-open when its cooldown has elapsed.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if time.Since(b.openedAt) < b.cooldown {
			return false
		}
		b.state = BreakerHalfOpen
	}
	return true
}

// RecordSuccess resets the failure count and closes a half-open
// breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.state = BreakerClosed
}

// RecordFailure counts a failure, opening the breaker at the
// threshold. A half-open breaker reopens immediately.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen {
		b.open()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.open()
	}
}

// open transitions to the open state. Caller holds the lock.
func (b *Breaker) open() {
	b.state = BreakerOpen
	b.openedAt = time.Now()
	b.failures = 0
}

// State returns the current state, accounting for an elapsed cooldown.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && time.Since(b.openedAt) >= b.cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

// Failures returns the consecutive failure count in the closed state.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
