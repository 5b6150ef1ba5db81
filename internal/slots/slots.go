// Package slots generates bookable pickup windows with off-peak
// discount incentives and rush warnings.
package slots

import "time"

// Kitchen operating hours
const (
	OpenHour  = 7
	CloseHour = 21
)

// Interval between consecutive pickup slots
const Interval = 15 * time.Minute

// How far ahead slots are offered
const horizon = 6 * time.Hour

// OffPeakDiscount is the percentage discount for off-peak pickups
const OffPeakDiscount = 10

// Slot is one bookable pickup window
type Slot struct {
	Time            time.Time `json:"time"`
	DisplayTime     string    `json:"displayTime"`
	IsOffPeak       bool      `json:"isOffPeak"`
	DiscountPercent int       `json:"discountPercent"`
	IsAvailable     bool      `json:"isAvailable"`
	IsRecommended   bool      `json:"isRecommended"`
	RushWarning     string    `json:"rushWarning,omitempty"`
}

// IsOffPeakHour reports whether pickups in this hour earn a discount:
// the hour before lunch rush and the mid-afternoon lull.
func IsOffPeakHour(hour int) bool {
	return hour == 11 || (hour >= 14 && hour < 16)
}

// IsRushWindow reports whether the hour falls in the lunch or dinner rush
func IsRushWindow(hour int) bool {
	return (hour >= 12 && hour < 14) || (hour >= 17 && hour < 19)
}

// Generate produces the bookable pickup slots from the next
// quarter-hour boundary after now through min(now+6h, today's closing),
// restricted to operating hours. Slots are 15-minute aligned and never
// at or before now.
func Generate(now time.Time) []Slot {
	// Align to the quarter-hour grid, then step to the next boundary
	// strictly after now.
	base := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute()-now.Minute()%15, 0, 0, now.Location())
	start := base.Add(Interval)

	end := now.Add(horizon)
	closing := time.Date(now.Year(), now.Month(), now.Day(), CloseHour, 0, 0, 0, now.Location())
	if closing.Before(end) {
		end = closing
	}

	slots := []Slot{}
	for t := start; t.Before(end); t = t.Add(Interval) {
		hour := t.Hour()
		if hour < OpenHour || hour >= CloseHour {
			continue
		}

		// Guard against boundary rounding ever emitting a past slot
		if !t.After(now) {
			continue
		}

		offPeak := IsOffPeakHour(hour)
		discount := 0
		if offPeak {
			discount = OffPeakDiscount
		}

		warning := ""
		if IsRushWindow(hour) {
			warning = "High demand expected"
		}

		slots = append(slots, Slot{
			Time:            t,
			DisplayTime:     formatDisplay(t),
			IsOffPeak:       offPeak,
			DiscountPercent: discount,
			IsAvailable:     true,
			IsRecommended:   offPeak,
			RushWarning:     warning,
		})
	}

	return slots
}

// ASAP is the synthetic pseudo-slot always offered alongside the
// generated windows; callers auto-select it when no slot is chosen.
func ASAP(now time.Time) Slot {
	t := now.Add(15 * time.Minute)
	return Slot{
		Time:          t,
		DisplayTime:   formatDisplay(t),
		IsAvailable:   true,
		IsRecommended: true,
	}
}

func formatDisplay(t time.Time) string {
	return t.Format("3:04 PM")
}
