package crowd

import "math"

// BatchPrepTime returns the total prep time in minutes for quantity
// units of a dish with the given single-unit base time. The first unit
// costs the full base time, the second 0.8x, and every unit from the
// third onward 0.6x: batching units of the same dish is cheaper but
// never free. The result is rounded to the nearest minute and is
// non-decreasing in quantity.
func BatchPrepTime(baseTime, quantity int) int {
	if quantity <= 1 {
		return baseTime
	}

	total := float64(baseTime)

	if quantity >= 2 {
		total += float64(baseTime) * 0.8
	}

	if quantity >= 3 {
		total += float64(baseTime) * 0.6 * float64(quantity-2)
	}

	return int(math.Round(total))
}

// ComplexityMultiplier reflects the coordination overhead of orders
// touching many distinct dishes. itemCount is the number of distinct
// line items in the whole order, not total unit quantity.
func ComplexityMultiplier(itemCount int) float64 {
	if itemCount <= 4 {
		return 1.0
	}
	if itemCount <= 7 {
		return 1.25
	}
	return 1.5
}
