// Package status owns the published canteen status record. Publication
// is a single atomic replace guarded by snapshot ordering, so a slow
// recomputation from a stale snapshot can never clobber a fresher one.
package status

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crowdsense/internal/crowd"
)

// DefaultOverrideCooldown is how long a manual override suppresses
// automatic publication before auto-calculation resumes on its own.
const DefaultOverrideCooldown = 30 * time.Minute

var (
	// ErrOverrideActive is returned when an automatic result arrives
	// while an operator override is still in force.
	ErrOverrideActive = errors.New("manual override active")

	// ErrStaleSnapshot is returned when a result was computed from an
	// older snapshot than the one already published.
	ErrStaleSnapshot = errors.New("stale snapshot")

	// ErrNoOverride is returned when clearing an override that is not set
	ErrNoOverride = errors.New("no manual override active")
)

// Listener receives every accepted status publication
type Listener func(CanteenStatus)

// Publisher holds the current canteen status and mediates all writes
type Publisher struct {
	mu           sync.Mutex
	status       CanteenStatus
	lastResult   *crowd.Result
	lastSnapshot time.Time
	override     *ManualOverride
	cooldown     time.Duration
	listeners    []Listener
	log          zerolog.Logger
}

// NewPublisher creates a publisher with the given override cool-down.
// A non-positive cooldown falls back to the default.
func NewPublisher(cooldown time.Duration, log zerolog.Logger) *Publisher {
	if cooldown <= 0 {
		cooldown = DefaultOverrideCooldown
	}
	return &Publisher{
		cooldown: cooldown,
		log:      log,
		status: CanteenStatus{
			CrowdLevel:        crowd.LevelLow,
			ActiveOrderIDs:    []string{},
			CalculationMethod: MethodAuto,
		},
	}
}

// Subscribe registers a listener for accepted publications
func (p *Publisher) Subscribe(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// Status returns the current published record
func (p *Publisher) Status() CanteenStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// LastResult returns the most recent automatic estimation result
func (p *Publisher) LastResult() (crowd.Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastResult == nil {
		return crowd.Result{}, false
	}
	return *p.lastResult, true
}

// OverrideActive reports whether a manual override is currently in force
func (p *Publisher) OverrideActive(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.override != nil && !p.override.Expired(now, p.cooldown)
}

// PublishAuto replaces the status record with an automatically computed
// result. snapshotAt is when the order/menu snapshot was taken; results
// from snapshots older than the published one are rejected. While a
// manual override is in force the publish is suppressed, until the
// cool-down elapses and auto-calculation resumes.
func (p *Publisher) PublishAuto(result crowd.Result, orderIDs []string, kitchenCapacity int, snapshotAt time.Time) error {
	p.mu.Lock()

	if p.override != nil {
		if !p.override.Expired(snapshotAt, p.cooldown) {
			p.mu.Unlock()
			return ErrOverrideActive
		}
		p.log.Info().Str("reason", p.override.Reason).Msg("override cool-down elapsed, resuming auto calculation")
		p.override = nil
	}

	if snapshotAt.Before(p.lastSnapshot) {
		p.mu.Unlock()
		return ErrStaleSnapshot
	}

	totalPrep := 0
	for _, q := range result.StationQueues {
		totalPrep += q.TotalPrepTime
	}

	if orderIDs == nil {
		orderIDs = []string{}
	}

	p.lastResult = &result
	p.lastSnapshot = snapshotAt
	p.status = CanteenStatus{
		CrowdLevel:             result.CrowdLevel,
		CrowdScore:             result.CrowdScore,
		EstimatedWait:          result.EstimatedWait,
		LastUpdated:            snapshotAt,
		ActiveOrders:           result.Factors.ActiveOrders,
		ActiveOrderIDs:         orderIDs,
		AveragePrepTime:        result.EfficiencyMetrics.AveragePrepTime,
		TotalPrepTimeRemaining: totalPrep,
		KitchenCapacity:        kitchenCapacity,
		StaffOnline:            result.Factors.StaffAvailable,
		CalculationMethod:      MethodAuto,
		Version:                p.status.Version + 1,
	}
	published := p.status
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	p.notify(listeners, published)
	return nil
}

// Override forces the published crowd level until cleared or until the
// cool-down elapses. The override carries preset score and wait values.
func (p *Publisher) Override(level crowd.Level, reason string, now time.Time) (CanteenStatus, error) {
	override, err := NewManualOverride(level, reason, now)
	if err != nil {
		return CanteenStatus{}, err
	}

	p.mu.Lock()
	score, wait := override.Preset()
	since := override.Since

	p.override = override
	p.status.CrowdLevel = level
	p.status.CrowdScore = score
	p.status.EstimatedWait = wait
	p.status.CalculationMethod = MethodManual
	p.status.OverrideReason = reason
	p.status.OverrideSince = &since
	p.status.LastUpdated = now
	p.status.Version++
	published := p.status
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	p.log.Info().Str("level", string(level)).Str("reason", reason).Msg("manual crowd override applied")
	p.notify(listeners, published)
	return published, nil
}

// ClearOverride resumes automatic calculation immediately
func (p *Publisher) ClearOverride(now time.Time) (CanteenStatus, error) {
	p.mu.Lock()
	if p.override == nil {
		p.mu.Unlock()
		return CanteenStatus{}, ErrNoOverride
	}

	p.override = nil
	p.status.CalculationMethod = MethodAuto
	p.status.OverrideReason = ""
	p.status.OverrideSince = nil
	p.status.LastUpdated = now
	p.status.Version++
	published := p.status
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()

	p.log.Info().Msg("manual crowd override cleared")
	p.notify(listeners, published)
	return published, nil
}

func (p *Publisher) notify(listeners []Listener, s CanteenStatus) {
	for _, l := range listeners {
		l(s)
	}
}
