// Package api exposes the cart's storage, inventory and label operations
// over HTTP for the admin dashboard.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brewcart/internal/inventory"
	"brewcart/internal/labels"
	"brewcart/internal/logging"
	"brewcart/internal/monitoring"
	"brewcart/internal/storage"
)

var logger = logging.GetLogger("api")

// Config holds the collaborators of a Server.
type Config struct {
	Storage   *storage.Service
	Inventory *inventory.Service
	Labels    *labels.Dispatcher
	Monitor   *monitoring.Monitor
	Feed      *Feed
	// MetricsPath is where Prometheus metrics are served. Empty disables
	// the endpoint.
	MetricsPath string
}

// Server is the admin API.
type Server struct {
	router    *gin.Engine
	storage   *storage.Service
	inventory *inventory.Service
	labels    *labels.Dispatcher
	monitor   *monitoring.Monitor
	feed      *Feed
	started   time.Time
}

// NewServer builds the router for cfg.
func NewServer(cfg Config) *Server {
	if cfg.Feed == nil {
		cfg.Feed = NewFeed()
	}
	s := &Server{
		router:    gin.New(),
		storage:   cfg.Storage,
		inventory: cfg.Inventory,
		labels:    cfg.Labels,
		monitor:   cfg.Monitor,
		feed:      cfg.Feed,
		started:   cfg.Storage.Clock().Now(),
	}
	s.router.Use(gin.Recovery(), requestLogger())
	s.setupRoutes(cfg.MetricsPath)
	return s
}

func (s *Server) setupRoutes(metricsPath string) {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ws", s.feed.handle)
	if metricsPath != "" {
		s.router.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(s.monitor.Registry(), promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/api/v1")
	{
		// Menu
		v1.GET("/drinks", s.handleListDrinks)
		v1.PUT("/drinks", s.handleReplaceDrinks)
		v1.PUT("/drinks/:id/availability", s.handleDrinkAvailability)

		// Orders
		v1.GET("/orders", s.handleListOrders)
		v1.POST("/orders", s.handleCreateOrder)
		v1.GET("/orders/:id", s.handleGetOrder)
		v1.PUT("/orders/:id/status", s.handleOrderStatus)
		v1.POST("/orders/:id/labels", s.handlePrintLabels)
		v1.POST("/customers/validate", s.handleValidateCustomer)

		// Syrups
		v1.GET("/syrups", s.handleListSyrups)
		v1.POST("/syrups", s.handleAddSyrup)
		v1.PUT("/syrups/:id/status", s.handleSyrupStatus)
		v1.DELETE("/syrups/:id", s.handleDeleteSyrup)

		// Settings
		v1.GET("/settings", s.handleGetSettings)
		v1.PUT("/settings", s.handleSaveSettings)
		v1.GET("/settings/:key", s.handleGetSetting)
		v1.PUT("/settings/:key", s.handleSaveSetting)

		// Inventory
		v1.GET("/inventory", s.handleInventory)
	}
}

// Router returns the gin router.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Feed returns the order feed.
func (s *Server) Feed() *Feed {
	return s.feed
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      s.storage.Clock().Now().Sub(s.started).Round(time.Second).String(),
		"feedClients": s.feed.Clients(),
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Debugf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(started))
	}
}

// statusFor maps an error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.NotValid):
		return http.StatusBadRequest
	case errors.Is(err, errors.AlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, errors.Details(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
