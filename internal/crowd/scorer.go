package crowd

import (
	"math"

	"crowdsense/internal/models"
)

// Rush hour multiplier applied to the bottleneck wait
const rushHourMultiplier = 1.3

// IsRushHour reports whether the given hour of day (0-23) falls in a
// lunch or dinner rush window.
func IsRushHour(hour int) bool {
	return (hour >= 12 && hour <= 13) || (hour >= 17 && hour <= 18)
}

// LevelForScore buckets a 0-100 crowd score into a customer-facing level
func LevelForScore(score int) Level {
	if score < 30 {
		return LevelLow
	}
	if score < 65 {
		return LevelMedium
	}
	return LevelHigh
}

// Calculate turns a snapshot of active orders, the menu catalog and the
// current hour of day into the published crowd estimate. It is a pure
// function: the same snapshot always yields the same result, and no
// state is retained between calls.
func Calculate(activeOrders []models.Order, menuItems []models.MenuItem, stations []models.StationConfig, currentHour int) Result {
	menu := NewMenuIndex(menuItems)

	stationQueues := make([]StationQueue, 0, len(stations))
	for _, station := range stations {
		stationQueues = append(stationQueues, BuildStationQueue(station, activeOrders, menu))
	}

	// First station wins on ties
	bottleneck := stationQueues[0]
	for _, queue := range stationQueues[1:] {
		if queue.WaitTime > bottleneck.WaitTime {
			bottleneck = queue
		}
	}

	rushHour := IsRushHour(currentHour)
	multiplier := 1.0
	if rushHour {
		multiplier = rushHourMultiplier
	}
	adjustedWait := int(math.Ceil(float64(bottleneck.WaitTime) * multiplier))

	totalItems := 0
	for _, order := range activeOrders {
		totalItems += order.TotalUnits()
	}

	batchTotal := 0
	for _, queue := range stationQueues {
		batchTotal += queue.TotalPrepTime
	}
	averagePrepTime := int(math.Round(float64(batchTotal) / float64(max(len(activeOrders), 1))))

	// Baseline: every unit cooked one at a time with no batch or
	// complexity adjustment. Unknown menu ids are skipped and counted.
	naiveTotal := 0
	skipped := 0
	for _, order := range activeOrders {
		for _, item := range order.Items {
			menuItem, ok := menu[item.MenuItemID]
			if !ok {
				skipped++
				continue
			}
			naiveTotal += menuItem.PrepTime * item.Quantity
		}
	}

	normalizedOrders := min(len(activeOrders)*10, 40)
	normalizedWait := min(adjustedWait*2, 40)
	bottleneckPenalty := min(bottleneck.TotalOrders*3, 20)

	crowdScore := min(normalizedOrders+normalizedWait+bottleneckPenalty, 100)
	crowdScore = max(crowdScore, 0)

	stationBottlenecks := []string{}
	for _, queue := range stationQueues {
		if float64(queue.WaitTime) >= 0.8*float64(adjustedWait) {
			stationBottlenecks = append(stationBottlenecks, queue.StationName)
		}
	}

	return Result{
		CrowdLevel:    LevelForScore(crowdScore),
		CrowdScore:    crowdScore,
		EstimatedWait: adjustedWait,
		StationQueues: stationQueues,
		EfficiencyMetrics: EfficiencyMetrics{
			BatchEfficiencyGain: naiveTotal - batchTotal,
			AveragePrepTime:     averagePrepTime,
			TotalOrders:         len(activeOrders),
			TotalItems:          totalItems,
		},
		Factors: Factors{
			ActiveOrders:       len(activeOrders),
			StationBottlenecks: stationBottlenecks,
			RushHour:           rushHour,
			RushHourMultiplier: multiplier,
			StaffAvailable:     models.TotalStaff(stations),
		},
		SkippedLookups: skipped,
	}
}
