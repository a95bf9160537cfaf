// Package proximity tracks whether the user is near a supermarket.
//
// The monitor is a two-state machine (FAR, NEAR) fed by location fixes.
// Entering NEAR fires the notifier once per edge; leaving NEAR is silent
// but still reported as a change to callers. Rapid FAR-NEAR-FAR flapping
// is legal and re-fires the entry notification on every FAR-to-NEAR edge.
package proximity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cartwise/companion-service/internal/geo"
	"github.com/cartwise/companion-service/internal/stores"
)

// State is the proximity state.
type State string

const (
	StateFar  State = "FAR"
	StateNear State = "NEAR"
)

// Evaluation is the outcome of processing one location fix.
type Evaluation struct {
	State   State               // State after the fix
	Changed bool                // True on both FAR->NEAR and NEAR->FAR edges
	Nearest []stores.StoreRecord // Stores within the very-close radius, nearest first
}

// StoreLocator supplies candidate stores around a coordinate.
type StoreLocator interface {
	FindNearby(ctx context.Context, origin geo.Coordinate, radiusKm float64) ([]stores.StoreRecord, error)
}

// Notifier receives the one-time "entered near a supermarket" event.
type Notifier interface {
	NearSupermarket(ctx context.Context, nearest []stores.StoreRecord)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, nearest []stores.StoreRecord)

func (f NotifierFunc) NearSupermarket(ctx context.Context, nearest []stores.StoreRecord) {
	f(ctx, nearest)
}

// SessionState is the monitor's mutable state for one app session.
// It is mutated only by Monitor.Evaluate and read through Snapshot.
type SessionState struct {
	IsNear          bool
	LastEvaluatedAt time.Time
	LastCoordinate  *geo.Coordinate
}

// Monitor evaluates location fixes against the store catalog.
// Fixes are processed one at a time; a fix arriving while a previous
// evaluation is still waiting on the locator is discarded as stale.
type Monitor struct {
	locator      StoreLocator
	notifier     Notifier
	veryCloseKm  float64
	logger       zerolog.Logger

	mu     sync.Mutex // Serializes evaluations; state never mutates mid-lookup
	state  SessionState
	isNear atomic.Bool // Mirror of state.IsNear, readable without the lock
}

// NewMonitor creates a Monitor in the FAR state.
func NewMonitor(locator StoreLocator, notifier Notifier, veryCloseKm float64, logger zerolog.Logger) *Monitor {
	return &Monitor{
		locator:     locator,
		notifier:    notifier,
		veryCloseKm: veryCloseKm,
		logger:      logger,
	}
}

// Evaluate processes one location fix and returns the resulting state.
//
// A locator failure leaves the state untouched and returns the current
// state with Changed=false alongside the error; the caller is expected to
// retry on the next fix.
func (m *Monitor) Evaluate(ctx context.Context, coordinate geo.Coordinate) (Evaluation, error) {
	if !m.mu.TryLock() {
		// A previous fix is still being evaluated; this one is stale.
		staleFixes.Inc()
		return Evaluation{State: m.snapshotState(), Changed: false}, nil
	}
	defer m.mu.Unlock()

	nearby, err := m.locator.FindNearby(ctx, coordinate, m.veryCloseKm)
	if err != nil {
		lookupFailures.Inc()
		m.logger.Warn().Err(err).Msg("store lookup failed, proximity state unchanged")
		return Evaluation{State: m.currentStateLocked(), Changed: false}, err
	}

	m.state.LastEvaluatedAt = time.Now()
	m.state.LastCoordinate = &coordinate

	isClose := len(nearby) > 0
	wasNear := m.state.IsNear

	switch {
	case isClose && !wasNear:
		m.state.IsNear = true
		m.isNear.Store(true)
		transitions.WithLabelValues("enter").Inc()
		m.logger.Info().
			Float64("lat", coordinate.Latitude).
			Float64("lon", coordinate.Longitude).
			Int("stores", len(nearby)).
			Msg("entered supermarket proximity")
		if m.notifier != nil {
			m.notifier.NearSupermarket(ctx, nearby)
		}
		return Evaluation{State: StateNear, Changed: true, Nearest: nearby}, nil

	case !isClose && wasNear:
		// Exit is silent: reported as a change but never notified.
		m.state.IsNear = false
		m.isNear.Store(false)
		transitions.WithLabelValues("exit").Inc()
		return Evaluation{State: StateFar, Changed: true}, nil

	default:
		return Evaluation{State: m.currentStateLocked(), Changed: false, Nearest: nearby}, nil
	}
}

// Snapshot returns a copy of the session state for observers.
func (m *Monitor) Snapshot() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Monitor) currentStateLocked() State {
	if m.state.IsNear {
		return StateNear
	}
	return StateFar
}

func (m *Monitor) snapshotState() State {
	// Lock-free read for the stale-fix fast path; a slightly outdated
	// state is acceptable there.
	if m.isNear.Load() {
		return StateNear
	}
	return StateFar
}
