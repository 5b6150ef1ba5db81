package models

import (
	"fmt"
	"time"
)

// MenuItem represents a dish on the canteen menu
type MenuItem struct {
	ID        string    `gorm:"primary_key" json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Available bool      `json:"available"`
	PrepTime  int       `json:"prepTime"` // minutes for a single unit
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Menu categories used by the reference deployment
const (
	CategoryPizza     = "Pizza"
	CategoryStarters  = "Starters"
	CategoryBread     = "Bread"
	CategoryRice      = "Rice"
	CategoryCurry     = "Curry"
	CategoryBeverages = "Beverages"
	CategoryDesserts  = "Desserts"
)

// ValidateMenuItem validates a menu item before it is persisted
func ValidateMenuItem(item *MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Category == "" {
		return fmt.Errorf("menu item category is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("menu item price must not be negative")
	}
	if item.PrepTime <= 0 {
		return fmt.Errorf("menu item prep time must be greater than 0")
	}
	return nil
}

// IsInCategory checks if the item belongs to a specific category
func (mi *MenuItem) IsInCategory(category string) bool {
	return mi.Category == category
}
