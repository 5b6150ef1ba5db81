package crowd

import "crowdsense/internal/models"

// Level is the customer-facing congestion bucket
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// QueueItem is one order item's contribution to a station queue,
// kept for diagnostics on the kitchen dashboard.
type QueueItem struct {
	OrderID  string `json:"orderId"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
	PrepTime int    `json:"prepTime"` // weighted minutes
}

// StationQueue is the derived production queue for one station
type StationQueue struct {
	StationName       string      `json:"stationName"`
	TotalOrders       int         `json:"totalOrders"`
	TotalPrepTime     int         `json:"totalPrepTime"`
	EffectiveCapacity int         `json:"effectiveCapacity"`
	WaitTime          int         `json:"waitTime"` // minutes
	Items             []QueueItem `json:"items"`
}

// EfficiencyMetrics summarizes how much the batch model saves over
// cooking every unit one at a time with no optimization.
type EfficiencyMetrics struct {
	BatchEfficiencyGain int `json:"batchEfficiencyGain"`
	AveragePrepTime     int `json:"averagePrepTime"`
	TotalOrders         int `json:"totalOrders"`
	TotalItems          int `json:"totalItems"`
}

// Factors records the inputs that drove the score, for observability
type Factors struct {
	ActiveOrders       int      `json:"activeOrders"`
	StationBottlenecks []string `json:"stationBottlenecks"`
	RushHour           bool     `json:"rushHour"`
	RushHourMultiplier float64  `json:"rushHourMultiplier"`
	StaffAvailable     int      `json:"staffAvailable"`
}

// Result is the full crowd-intelligence estimate for one snapshot
type Result struct {
	CrowdLevel        Level             `json:"crowdLevel"`
	CrowdScore        int               `json:"crowdScore"`
	EstimatedWait     int               `json:"estimatedWait"` // minutes
	StationQueues     []StationQueue    `json:"stationQueues"`
	EfficiencyMetrics EfficiencyMetrics `json:"efficiencyMetrics"`
	Factors           Factors           `json:"factors"`

	// SkippedLookups counts order items referencing unknown menu ids.
	// Those items are dropped from the estimate instead of aborting it.
	SkippedLookups int `json:"skippedLookups"`
}

// MenuIndex provides menu item lookup by id
type MenuIndex map[string]models.MenuItem

// NewMenuIndex builds an index over the menu catalog snapshot
func NewMenuIndex(items []models.MenuItem) MenuIndex {
	index := make(MenuIndex, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index
}
