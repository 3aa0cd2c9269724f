// Package resilience holds the client-side protections the outbound feed
// calls and cache loads lean on.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is the fail-fast error for calls refused by an open breaker.
var ErrCircuitOpen = errors.New("circuit open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

// BreakerConfig tunes a Breaker. Zero fields fall back to defaults sized for
// a polled HTTP dependency.
type BreakerConfig struct {
	// FailureThreshold is the run of consecutive failures that trips the
	// breaker while closed.
	FailureThreshold int
	// OpenTimeout is how long a tripped breaker refuses calls before it
	// starts probing the dependency again.
	OpenTimeout time.Duration
	// HalfOpenProbes caps in-flight trial calls during recovery and is also
	// the number of successes needed to close again.
	HalfOpenProbes int
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = 2
	}
	return c
}

// Breaker shields an unreliable dependency. A run of consecutive failures
// trips it open; once OpenTimeout lapses it admits a bounded number of probe
// calls and closes again after enough of them succeed.
type Breaker struct {
	mu  sync.Mutex
	cfg BreakerConfig

	state     BreakerState
	failures  int
	trippedAt time.Time
	probes    int
	probeWins int
	now       func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{
		cfg:   cfg.withDefaults(),
		state: BreakerClosed,
		now:   time.Now,
	}
}

// Admit decides whether the caller may attempt the dependency now. Every
// admitted call must be paired with exactly one Observe.
func (b *Breaker) Admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.now().Sub(b.trippedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = BreakerHalfOpen
		b.probes = 0
		b.probeWins = 0
	}

	if b.state == BreakerHalfOpen {
		if b.probes >= b.cfg.HalfOpenProbes {
			return ErrCircuitOpen
		}
		b.probes++
	}

	return nil
}

// Observe reports the outcome of an admitted call.
func (b *Breaker) Observe(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if failed {
		b.observeFailure()
		return
	}
	b.observeSuccess()
}

func (b *Breaker) observeSuccess() {
	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.probeWins++
		if b.probeWins >= b.cfg.HalfOpenProbes && b.probes == 0 {
			b.state = BreakerClosed
			b.failures = 0
			b.trippedAt = time.Time{}
		}
	}
}

func (b *Breaker) observeFailure() {
	switch b.state {
	case BreakerClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case BreakerHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.trip()
	case BreakerOpen:
		b.trippedAt = b.now()
	}
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.trippedAt = b.now()
	b.probes = 0
	b.probeWins = 0
}

// State reports the effective state, surfacing half_open for an open breaker
// whose timeout has already lapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.now().Sub(b.trippedAt) >= b.cfg.OpenTimeout {
		return BreakerHalfOpen
	}
	return b.state
}
