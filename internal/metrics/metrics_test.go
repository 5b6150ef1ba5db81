package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"crowdsense/internal/crowd"
)

func TestObserveResult(t *testing.T) {
	c := NewCollector()

	c.ObserveResult(crowd.Result{
		CrowdScore:    55,
		EstimatedWait: 18,
		StationQueues: []crowd.StationQueue{
			{StationName: "Pizza Oven", TotalOrders: 3, WaitTime: 18},
			{StationName: "Bread Station", TotalOrders: 1, WaitTime: 4},
		},
		EfficiencyMetrics: crowd.EfficiencyMetrics{BatchEfficiencyGain: 42},
		Factors:           crowd.Factors{ActiveOrders: 4},
		SkippedLookups:    2,
	})

	if got := testutil.ToFloat64(c.crowdScore); got != 55 {
		t.Errorf("crowd_score = %v, want 55", got)
	}
	if got := testutil.ToFloat64(c.estimatedWait); got != 18 {
		t.Errorf("estimated_wait_minutes = %v, want 18", got)
	}
	if got := testutil.ToFloat64(c.activeOrders); got != 4 {
		t.Errorf("active_orders = %v, want 4", got)
	}
	if got := testutil.ToFloat64(c.skippedLookups); got != 2 {
		t.Errorf("skipped_menu_lookups_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.stationWait.WithLabelValues("Pizza Oven")); got != 18 {
		t.Errorf("station_wait_minutes{Pizza Oven} = %v, want 18", got)
	}

	// Counters accumulate across observations
	c.ObserveResult(crowd.Result{SkippedLookups: 1})
	if got := testutil.ToFloat64(c.recalculations); got != 2 {
		t.Errorf("crowd_recalculations_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.skippedLookups); got != 3 {
		t.Errorf("skipped_menu_lookups_total = %v, want 3", got)
	}
}
