// Package engine hosts the long-lived recalculation component. The
// estimator itself is pure; the engine owns the menu-catalog cache,
// fetches order snapshots and decides when a result gets published.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crowdsense/internal/crowd"
	"crowdsense/internal/metrics"
	"crowdsense/internal/models"
	"crowdsense/internal/status"
)

// DefaultMenuTTL bounds how long a cached menu catalog is reused
const DefaultMenuTTL = 10 * time.Minute

// Store supplies order and menu snapshots
type Store interface {
	ActiveOrders(ctx context.Context) ([]models.Order, error)
	MenuItems(ctx context.Context) ([]models.MenuItem, error)
}

// Config wires an Engine
type Config struct {
	Store     Store
	Publisher *status.Publisher
	Stations  []models.StationConfig
	Metrics   *metrics.Collector
	MenuTTL   time.Duration
	Clock     func() time.Time
	Logger    zerolog.Logger
}

// Engine recomputes and publishes the crowd estimate on demand. It is
// triggered by order events, never by a timer.
type Engine struct {
	store     Store
	publisher *status.Publisher
	stations  []models.StationConfig
	metrics   *metrics.Collector
	now       func() time.Time
	log       zerolog.Logger

	menuMu      sync.Mutex
	menuCache   []models.MenuItem
	menuFetched time.Time
	menuTTL     time.Duration
}

// New creates an engine from the given wiring
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MenuTTL <= 0 {
		cfg.MenuTTL = DefaultMenuTTL
	}
	if len(cfg.Stations) == 0 {
		cfg.Stations = models.DefaultStations
	}
	return &Engine{
		store:     cfg.Store,
		publisher: cfg.Publisher,
		stations:  cfg.Stations,
		metrics:   cfg.Metrics,
		now:       cfg.Clock,
		log:       cfg.Logger,
		menuTTL:   cfg.MenuTTL,
	}
}

// Recalculate fetches a fresh snapshot, runs the estimator and
// publishes the result. Publication suppressed by an active manual
// override or superseded by a newer snapshot is not an error: the
// previously published status stays authoritative.
func (e *Engine) Recalculate(ctx context.Context) (crowd.Result, error) {
	snapshotAt := e.now()

	orders, err := e.store.ActiveOrders(ctx)
	if err != nil {
		return crowd.Result{}, fmt.Errorf("fetch active orders: %w", err)
	}

	menu, err := e.menuItems(ctx)
	if err != nil {
		return crowd.Result{}, fmt.Errorf("fetch menu catalog: %w", err)
	}

	result := crowd.Calculate(orders, menu, e.stations, snapshotAt.Hour())

	if result.SkippedLookups > 0 {
		e.log.Warn().Int("skipped", result.SkippedLookups).Msg("order items referenced unknown menu ids")
	}

	orderIDs := make([]string, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	err = e.publisher.PublishAuto(result, orderIDs, models.TotalCapacity(e.stations), snapshotAt)
	switch {
	case errors.Is(err, status.ErrOverrideActive):
		e.log.Debug().Msg("recalculation suppressed by manual override")
	case errors.Is(err, status.ErrStaleSnapshot):
		e.log.Debug().Time("snapshot", snapshotAt).Msg("recalculation superseded by newer snapshot")
	case err != nil:
		return crowd.Result{}, fmt.Errorf("publish status: %w", err)
	default:
		if e.metrics != nil {
			e.metrics.ObserveResult(result)
		}
		e.log.Info().
			Str("level", string(result.CrowdLevel)).
			Int("score", result.CrowdScore).
			Int("wait", result.EstimatedWait).
			Int("activeOrders", result.Factors.ActiveOrders).
			Msg("crowd status updated")
	}

	return result, nil
}

// menuItems returns the cached catalog, refreshing it when stale. The
// lock serializes refreshes so concurrent triggers cannot stampede the
// store when the cache expires.
func (e *Engine) menuItems(ctx context.Context) ([]models.MenuItem, error) {
	e.menuMu.Lock()
	defer e.menuMu.Unlock()

	if e.menuCache != nil && e.now().Sub(e.menuFetched) < e.menuTTL {
		return e.menuCache, nil
	}

	items, err := e.store.MenuItems(ctx)
	if err != nil {
		if e.menuCache != nil {
			// Stale-but-available beats no catalog
			e.log.Error().Err(err).Msg("menu refresh failed, serving cached catalog")
			return e.menuCache, nil
		}
		return nil, err
	}

	e.menuCache = items
	e.menuFetched = e.now()
	return items, nil
}

// InvalidateMenu forces the next recalculation to reload the catalog,
// e.g. after a menu item is created or edited.
func (e *Engine) InvalidateMenu() {
	e.menuMu.Lock()
	defer e.menuMu.Unlock()
	e.menuCache = nil
}
