package models

import "fmt"

// StationConfig describes a kitchen station: the categories it serves,
// its physical parallel capacity and the staff assigned to it.
// Stations are static deployment configuration, not per-call input.
type StationConfig struct {
	Name       string   `yaml:"name" json:"name"`
	Categories []string `yaml:"categories" json:"categories"`
	Capacity   int      `yaml:"capacity" json:"capacity"`
	Cooks      int      `yaml:"cooks" json:"cooks"`
}

// DefaultStations is the five-station reference deployment
var DefaultStations = []StationConfig{
	{
		Name:       "Pizza Oven",
		Categories: []string{CategoryPizza},
		Capacity:   3,
		Cooks:      1,
	},
	{
		Name:       "Tandoor/Grill",
		Categories: []string{CategoryStarters, CategoryBread},
		Capacity:   2,
		Cooks:      2,
	},
	{
		Name:       "Rice/Curry Pot",
		Categories: []string{CategoryRice, CategoryCurry},
		Capacity:   2,
		Cooks:      2,
	},
	{
		Name:       "Beverage Counter",
		Categories: []string{CategoryBeverages, CategoryDesserts},
		Capacity:   1,
		Cooks:      1,
	},
	{
		Name:       "Bread Station",
		Categories: []string{CategoryBread},
		Capacity:   3,
		Cooks:      1,
	},
}

// Serves reports whether the station handles the given menu category
func (s StationConfig) Serves(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// EffectiveCapacity is the number of dishes the station can work in parallel
func (s StationConfig) EffectiveCapacity() int {
	return s.Cooks * s.Capacity
}

// TotalStaff sums the cooks assigned across all stations
func TotalStaff(stations []StationConfig) int {
	staff := 0
	for _, s := range stations {
		staff += s.Cooks
	}
	return staff
}

// TotalCapacity sums the effective capacity across all stations
func TotalCapacity(stations []StationConfig) int {
	capacity := 0
	for _, s := range stations {
		capacity += s.EffectiveCapacity()
	}
	return capacity
}

// ValidateStations rejects malformed station configuration at startup
// rather than letting a zero capacity poison the wait-time division.
func ValidateStations(stations []StationConfig) error {
	if len(stations) == 0 {
		return fmt.Errorf("at least one station is required")
	}
	for _, s := range stations {
		if s.Name == "" {
			return fmt.Errorf("station name is required")
		}
		if len(s.Categories) == 0 {
			return fmt.Errorf("station %q must serve at least one category", s.Name)
		}
		if s.Capacity <= 0 {
			return fmt.Errorf("station %q capacity must be greater than 0", s.Name)
		}
		if s.Cooks <= 0 {
			return fmt.Errorf("station %q must have at least one cook", s.Name)
		}
	}
	return nil
}
