package status

import (
	"fmt"
	"time"

	"crowdsense/internal/crowd"
)

// CalculationMethod discriminates how the published status was produced
type CalculationMethod string

const (
	MethodAuto   CalculationMethod = "auto"
	MethodManual CalculationMethod = "manual"
)

// CanteenStatus is the shared record consumed by customer-facing
// displays and the kitchen dashboard. It is always replaced as a whole,
// never merged field by field.
type CanteenStatus struct {
	CrowdLevel             crowd.Level       `json:"crowdLevel"`
	CrowdScore             int               `json:"crowdScore"`
	EstimatedWait          int               `json:"estimatedWait"`
	LastUpdated            time.Time         `json:"lastUpdated"`
	ActiveOrders           int               `json:"activeOrders"`
	ActiveOrderIDs         []string          `json:"activeOrderIds"`
	AveragePrepTime        int               `json:"averagePrepTime"`
	TotalPrepTimeRemaining int               `json:"totalPrepTimeRemaining"`
	KitchenCapacity        int               `json:"kitchenCapacity"`
	StaffOnline            int               `json:"staffOnline"`
	CalculationMethod      CalculationMethod `json:"calculationMethod"`
	OverrideReason         string            `json:"overrideReason,omitempty"`
	OverrideSince          *time.Time        `json:"overrideSince,omitempty"`

	// Version increases on every accepted publish so consumers can
	// discard out-of-order updates.
	Version int64 `json:"version"`
}

// ManualOverride is the manual arm of the Auto/Manual status variant.
// A nil *ManualOverride means automatic calculation; a non-nil one
// always carries a reason, so "manual with no reason" cannot exist.
type ManualOverride struct {
	Level  crowd.Level
	Reason string
	Since  time.Time
}

// NewManualOverride validates and builds an override record
func NewManualOverride(level crowd.Level, reason string, at time.Time) (*ManualOverride, error) {
	switch level {
	case crowd.LevelLow, crowd.LevelMedium, crowd.LevelHigh:
	default:
		return nil, fmt.Errorf("unknown crowd level %q", level)
	}
	if reason == "" {
		return nil, fmt.Errorf("manual override requires a reason")
	}
	return &ManualOverride{Level: level, Reason: reason, Since: at}, nil
}

// Expired reports whether the override's cool-down has elapsed
func (o *ManualOverride) Expired(now time.Time, cooldown time.Duration) bool {
	return now.Sub(o.Since) >= cooldown
}

// Preset returns the score and wait displayed while the override holds
func (o *ManualOverride) Preset() (score, wait int) {
	switch o.Level {
	case crowd.LevelLow:
		return 20, 5
	case crowd.LevelHigh:
		return 80, 30
	default:
		return 50, 15
	}
}
