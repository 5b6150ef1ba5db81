// Package store persists orders and menu items and supplies the
// snapshots the estimation engine consumes.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"crowdsense/internal/models"
)

// Store wraps the database connection
type Store struct {
	db *gorm.DB
}

// Open connects to the database and runs migrations. driver is
// "sqlite3" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&models.MenuItem{}, &models.Order{}, &models.OrderItem{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateMenuItem persists a new menu item
func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := models.ValidateMenuItem(item); err != nil {
		return err
	}
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

// MenuItems returns the full menu catalog
func (s *Store) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []models.MenuItem
	if err := s.db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// CreateOrder persists a new order together with its line items
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if order.Status == "" {
		order.Status = models.OrderStatusKitchenReceived
	}
	if !order.Status.Valid() {
		return fmt.Errorf("invalid order status %q", order.Status)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// OrderByID loads one order with its line items
func (s *Store) OrderByID(ctx context.Context, id string) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return models.Order{}, fmt.Errorf("load order %s: %w", id, err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to a new status
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("invalid order status %q", status)
	}

	result := s.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return models.Order{}, fmt.Errorf("update order %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Order{}, fmt.Errorf("order %s not found", id)
	}

	return s.OrderByID(ctx, id)
}

// ActiveOrders returns the snapshot of orders the kitchen is working on
func (s *Store) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	statuses := make([]string, len(models.ActiveStatuses))
	for i, st := range models.ActiveStatuses {
		statuses[i] = string(st)
	}

	var orders []models.Order
	if err := s.db.Preload("Items").Where("status IN (?)", statuses).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	return orders, nil
}
