package models

import "time"

// Order represents a customer order as seen by the kitchen
type Order struct {
	ID        string      `gorm:"primary_key" json:"id"`
	Items     []OrderItem `gorm:"foreignkey:OrderID" json:"items"`
	Status    OrderStatus `json:"status"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem represents one line item in an order
type OrderItem struct {
	ID         uint   `gorm:"primary_key" json:"-"`
	OrderID    string `gorm:"index" json:"-"`
	MenuItemID string `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusKitchenReceived OrderStatus = "kitchen_received"
	OrderStatusPreparing       OrderStatus = "preparing"
	OrderStatusReady           OrderStatus = "ready"
	OrderStatusCompleted       OrderStatus = "completed"
)

// ActiveStatuses are the statuses that contribute to kitchen load
var ActiveStatuses = []OrderStatus{OrderStatusKitchenReceived, OrderStatusPreparing}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusKitchenReceived, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the order is still being worked by the kitchen
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusKitchenReceived || o.Status == OrderStatusPreparing
}

// TotalUnits returns the total unit quantity across all line items
func (o *Order) TotalUnits() int {
	units := 0
	for _, item := range o.Items {
		units += item.Quantity
	}
	return units
}
