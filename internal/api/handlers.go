package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crowdsense/internal/crowd"
	"crowdsense/internal/forecast"
	"crowdsense/internal/models"
	"crowdsense/internal/slots"
)

// Status handlers

func (s *Server) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.publisher.Status())
}

func (s *Server) GetStationQueues(c *gin.Context) {
	result, ok := s.publisher.LastResult()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"stationQueues": []crowd.StationQueue{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stationQueues":  result.StationQueues,
		"bottlenecks":    result.Factors.StationBottlenecks,
		"skippedLookups": result.SkippedLookups,
	})
}

func (s *Server) ApplyOverride(c *gin.Context) {
	var req struct {
		Level  string `json:"level" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	published, err := s.publisher.Override(crowd.Level(req.Level), req.Reason, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, published)
}

func (s *Server) ClearOverride(c *gin.Context) {
	published, err := s.publisher.ClearOverride(time.Now())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// Repopulate computed fields right away instead of waiting for the
	// next order event.
	if _, err := s.engine.Recalculate(c.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("recalculation after override clear failed")
	}

	c.JSON(http.StatusOK, gin.H{"message": "auto calculation resumed", "status": published})
}

// Advisory handlers

func (s *Server) GetForecast(c *gin.Context) {
	now := time.Now()
	response := gin.H{"predictions": forecast.PredictRushHours(now)}

	if warn := c.Query("warn"); warn != "" {
		window, err := strconv.Atoi(warn)
		if err != nil || window <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "warn must be a positive number of minutes"})
			return
		}
		if pred, ok := forecast.UpcomingRushWarning(now, window); ok {
			response["warning"] = pred
		}
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) GetTimeSlots(c *gin.Context) {
	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"asap":  slots.ASAP(now),
		"slots": slots.Generate(now),
	})
}

// Menu handlers

func (s *Server) ListMenu(c *gin.Context) {
	items, err := s.store.MenuItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if err := s.store.CreateMenuItem(c.Request.Context(), &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.engine.InvalidateMenu()
	c.JSON(http.StatusCreated, item)
}

// Order handlers

func (s *Server) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(order.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must have at least one item"})
		return
	}
	for _, item := range order.Items {
		if item.MenuItemID == "" || item.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "each item needs a menu id and a quantity of at least 1"})
			return
		}
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	if err := s.store.CreateOrder(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.recalculate(c)
	c.JSON(http.StatusCreated, order)
}

func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.store.OrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}

	order, err := s.store.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	s.recalculate(c)
	c.JSON(http.StatusOK, order)
}

// recalculate refreshes the published status after an order event.
// A failure here degrades freshness, not the order operation itself.
func (s *Server) recalculate(c *gin.Context) {
	if _, err := s.engine.Recalculate(c.Request.Context()); err != nil {
		s.log.Error().Err(err).Msg("crowd recalculation failed, previous status remains published")
	}
}
