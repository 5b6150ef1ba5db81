package crowd

import (
	"math"

	"crowdsense/internal/models"
)

// BuildStationQueue aggregates the active orders relevant to one
// station into a production queue. An order contributes only the items
// whose menu category the station serves; orders with no matching
// items are skipped entirely. Items referencing unknown menu ids are
// dropped from the aggregation.
func BuildStationQueue(station models.StationConfig, orders []models.Order, menu MenuIndex) StationQueue {
	var totalPrepTime float64
	totalOrders := 0
	items := []QueueItem{}

	for _, order := range orders {
		var matches []models.OrderItem
		for _, item := range order.Items {
			menuItem, ok := menu[item.MenuItemID]
			if !ok {
				continue
			}
			if station.Serves(menuItem.Category) {
				matches = append(matches, item)
			}
		}

		if len(matches) == 0 {
			continue
		}

		totalOrders++

		// Complexity is driven by the whole order, not just the items
		// this station sees, and applies to every station it touches.
		multiplier := ComplexityMultiplier(len(order.Items))

		for _, item := range matches {
			menuItem := menu[item.MenuItemID]
			batchTime := BatchPrepTime(menuItem.PrepTime, item.Quantity)
			weighted := float64(batchTime) * multiplier
			totalPrepTime += weighted

			name := item.Name
			if name == "" {
				name = menuItem.Name
			}
			items = append(items, QueueItem{
				OrderID:  order.ID,
				ItemName: name,
				Quantity: item.Quantity,
				PrepTime: int(math.Round(weighted)),
			})
		}
	}

	effectiveCapacity := station.EffectiveCapacity()

	return StationQueue{
		StationName:       station.Name,
		TotalOrders:       totalOrders,
		TotalPrepTime:     int(math.Round(totalPrepTime)),
		EffectiveCapacity: effectiveCapacity,
		WaitTime:          int(math.Ceil(totalPrepTime / float64(effectiveCapacity))),
		Items:             items,
	}
}
