package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdsense/internal/engine"
	"crowdsense/internal/models"
	"crowdsense/internal/status"
)

// memStore keeps everything in maps; it backs both the API handlers
// and the engine's snapshot interface.
type memStore struct {
	mu     sync.Mutex
	menu   map[string]models.MenuItem
	orders map[string]models.Order
}

func newMemStore() *memStore {
	return &memStore{
		menu:   make(map[string]models.MenuItem),
		orders: make(map[string]models.Order),
	}
}

func (m *memStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menu[item.ID] = *item
	return nil
}

func (m *memStore) MenuItems(ctx context.Context) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.MenuItem, 0, len(m.menu))
	for _, item := range m.menu {
		items = append(items, item)
	}
	return items, nil
}

func (m *memStore) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.Status == "" {
		order.Status = models.OrderStatusKitchenReceived
	}
	m.orders[order.ID] = *order
	return nil
}

func (m *memStore) OrderByID(ctx context.Context, id string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s not found", id)
	}
	return order, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, id string, s models.OrderStatus) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s not found", id)
	}
	order.Status = s
	m.orders[id] = order
	return order, nil
}

func (m *memStore) ActiveOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var active []models.Order
	for _, order := range m.orders {
		if order.IsActive() {
			active = append(active, order)
		}
	}
	return active, nil
}

func newTestServer(t *testing.T) (*Server, *memStore, *status.Publisher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	store.menu["pizza"] = models.MenuItem{ID: "pizza", Name: "Margherita", Category: models.CategoryPizza, PrepTime: 20, Available: true}

	publisher := status.NewPublisher(30*time.Minute, zerolog.Nop())
	eng := engine.New(engine.Config{
		Store:     store,
		Publisher: publisher,
		Stations:  models.DefaultStations,
		Logger:    zerolog.Nop(),
	})

	return NewServer(store, eng, publisher, zerolog.Nop()), store, publisher
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateOrderUpdatesStatus(t *testing.T) {
	s, _, publisher := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", gin.H{
		"items": []gin.H{{"menuItemId": "pizza", "name": "Margherita", "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	published := publisher.Status()
	assert.Equal(t, 1, published.ActiveOrders)
	assert.Greater(t, published.CrowdScore, 0)
	assert.Equal(t, status.MethodAuto, published.CalculationMethod)
}

func TestCreateOrderValidation(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", gin.H{
		"items": []gin.H{{"menuItemId": "pizza", "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderStatusTransitionRecalculates(t *testing.T) {
	s, _, publisher := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", gin.H{
		"id":    "o1",
		"items": []gin.H{{"menuItemId": "pizza", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, publisher.Status().ActiveOrders)

	w = doJSON(t, s, http.MethodPatch, "/api/v1/orders/o1/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, publisher.Status().ActiveOrders)

	w = doJSON(t, s, http.MethodPatch, "/api/v1/orders/o1/status", gin.H{"status": "burnt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStatusAndStations(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", gin.H{
		"items": []gin.H{{"menuItemId": "pizza", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got status.CanteenStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.ActiveOrders)

	w = doJSON(t, s, http.MethodGet, "/api/v1/status/stations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stations struct {
		StationQueues []json.RawMessage `json:"stationQueues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stations))
	assert.Len(t, stations.StationQueues, len(models.DefaultStations))
}

func TestOverrideLifecycle(t *testing.T) {
	s, _, publisher := newTestServer(t)

	// Reason is mandatory
	w := doJSON(t, s, http.MethodPost, "/api/v1/status/override", gin.H{"level": "high"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/status/override", gin.H{
		"level":  "high",
		"reason": "college fest",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, status.MethodManual, publisher.Status().CalculationMethod)

	// Orders during override do not change the published level
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", gin.H{
		"items": []gin.H{{"menuItemId": "pizza", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, status.MethodManual, publisher.Status().CalculationMethod)

	w = doJSON(t, s, http.MethodDelete, "/api/v1/status/override", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, status.MethodAuto, publisher.Status().CalculationMethod)

	w = doJSON(t, s, http.MethodDelete, "/api/v1/status/override", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestForecastEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/forecast", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Predictions []struct {
			Time       string `json:"time"`
			Confidence int    `json:"confidence"`
		} `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Predictions)

	w = doJSON(t, s, http.MethodGet, "/api/v1/forecast?warn=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimeSlotsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/slots", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ASAP struct {
			IsRecommended bool `json:"isRecommended"`
		} `json:"asap"`
		Slots []struct {
			DiscountPercent int  `json:"discountPercent"`
			IsOffPeak       bool `json:"isOffPeak"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.ASAP.IsRecommended)
	for _, slot := range resp.Slots {
		if slot.IsOffPeak {
			assert.Equal(t, 10, slot.DiscountPercent)
		} else {
			assert.Zero(t, slot.DiscountPercent)
		}
	}
}

func TestMenuEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/menu", gin.H{
		"name":     "Masala Chai",
		"category": models.CategoryBeverages,
		"price":    1.5,
		"prepTime": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
}
