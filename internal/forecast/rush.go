// Package forecast predicts upcoming demand spikes from a fixed
// day-of-week heuristic table. It does not learn from live data.
package forecast

import (
	"fmt"
	"time"
)

// Likelihood grades how strong a predicted rush is expected to be
type Likelihood string

const (
	LikelihoodLow    Likelihood = "low"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodHigh   Likelihood = "high"
)

// Prediction is one expected rush window for the day
type Prediction struct {
	Time       string     `json:"time"` // "HH:MM", 24h
	Likelihood Likelihood `json:"likelihood"`
	Confidence int        `json:"confidence"` // 0-100
	Reason     string     `json:"reason,omitempty"`
}

// DefaultWarningWindow is how many minutes before a predicted rush the
// kitchen gets warned.
const DefaultWarningWindow = 60

// Warnings stay active this many minutes after the predicted start
const warningGrace = 15

var weekdayPattern = []Prediction{
	{Time: "09:00", Likelihood: LikelihoodMedium, Confidence: 70, Reason: "Morning Breakfast"},
	{Time: "12:30", Likelihood: LikelihoodHigh, Confidence: 95, Reason: "Lunch Break"},
	{Time: "17:00", Likelihood: LikelihoodMedium, Confidence: 80, Reason: "Evening Snacks"},
}

var weekendPattern = []Prediction{
	{Time: "13:00", Likelihood: LikelihoodMedium, Confidence: 60, Reason: "Weekend Brunch"},
	{Time: "19:00", Likelihood: LikelihoodHigh, Confidence: 85, Reason: "Dinner Rush"},
}

func init() {
	// The tables are static; a malformed entry is a programming error.
	for _, p := range append(append([]Prediction{}, weekdayPattern...), weekendPattern...) {
		if _, err := minutesSinceMidnight(p.Time); err != nil {
			panic(err)
		}
	}
}

// PredictRushHours returns the expected rush windows for the given
// date, ordered by time of day. Pure function of the day of week.
func PredictRushHours(date time.Time) []Prediction {
	day := date.Weekday()
	if day == time.Sunday || day == time.Saturday {
		return append([]Prediction{}, weekendPattern...)
	}
	return append([]Prediction{}, weekdayPattern...)
}

// UpcomingRushWarning returns the first prediction starting within
// minutesBefore minutes of now. The window is asymmetric: a rush still
// warrants a warning for 15 minutes after its predicted start.
func UpcomingRushWarning(now time.Time, minutesBefore int) (Prediction, bool) {
	currentMinutes := now.Hour()*60 + now.Minute()

	for _, pred := range PredictRushHours(now) {
		predMinutes, err := minutesSinceMidnight(pred.Time)
		if err != nil {
			continue
		}

		diff := predMinutes - currentMinutes
		if diff > -warningGrace && diff <= minutesBefore {
			return pred, true
		}
	}

	return Prediction{}, false
}

func minutesSinceMidnight(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("malformed time %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed time %q", hhmm)
	}
	return h*60 + m, nil
}
