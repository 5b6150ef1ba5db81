// Package api exposes the estimation service over HTTP and pushes
// status updates to connected dashboards over websocket.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"crowdsense/internal/engine"
	"crowdsense/internal/models"
	"crowdsense/internal/status"
)

// Store is the persistence surface the API needs
type Store interface {
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	MenuItems(ctx context.Context) ([]models.MenuItem, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	OrderByID(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, s models.OrderStatus) (models.Order, error)
}

// Server is the HTTP front of the estimation service
type Server struct {
	router    *gin.Engine
	store     Store
	engine    *engine.Engine
	publisher *status.Publisher
	hub       *Hub
	log       zerolog.Logger
}

// NewServer wires the router and subscribes the websocket hub to
// status publications.
func NewServer(store Store, eng *engine.Engine, publisher *status.Publisher, log zerolog.Logger) *Server {
	s := &Server{
		router:    gin.Default(),
		store:     store,
		engine:    eng,
		publisher: publisher,
		hub:       NewHub(log),
		log:       log,
	}

	publisher.Subscribe(s.hub.Broadcast)

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	s.router.GET("/ws", s.handleWebSocket)

	v1 := s.router.Group("/api/v1")
	{
		// Published crowd status
		v1.GET("/status", s.GetStatus)
		v1.GET("/status/stations", s.GetStationQueues)
		v1.POST("/status/override", s.ApplyOverride)
		v1.DELETE("/status/override", s.ClearOverride)

		// Advisory surfaces
		v1.GET("/forecast", s.GetForecast)
		v1.GET("/slots", s.GetTimeSlots)

		// Menu catalog
		v1.GET("/menu", s.ListMenu)
		v1.POST("/menu", s.CreateMenuItem)

		// Orders: the events that trigger recalculation
		v1.POST("/orders", s.CreateOrder)
		v1.GET("/orders/:id", s.GetOrder)
		v1.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	}
}

// Router returns the gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
