// Package api implements the HTTP API for the archiving service.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/geosearch/internal/config"
	"github.com/jonesrussell/geosearch/internal/database"
	"github.com/jonesrussell/geosearch/internal/ingest"
	"github.com/jonesrussell/geosearch/internal/logger"
)

// readHeaderTimeout bounds reading request headers.
const readHeaderTimeout = 10 * time.Second

// Params holds the dependencies for the API router.
type Params struct {
	Logger    logger.Interface
	Service   *ingest.Service
	Locations database.LocationRepositoryInterface
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(p Params) *gin.Engine {
	// Disable Gin's default logging
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(p.Logger))
	router.Use(corsMiddleware())

	router.GET("/health", handleHealth(p.Service))

	archives := NewArchivesHandler(p.Service)
	locations := NewLocationsHandler(p.Locations)
	poll := NewPollHandler(p.Service, p.Logger)

	v1 := router.Group("/api/v1")
	v1.GET("/archives", archives.ListArchives)
	v1.POST("/archives/:key/seal", archives.SealArchive)
	v1.DELETE("/archives/:key", archives.DeleteArchive)
	v1.GET("/locations", locations.ListLocations)
	v1.POST("/locations", locations.CreateLocation)
	v1.POST("/poll", poll.TriggerPoll)

	return router
}

// handleHealth reports service liveness and the pipeline counters.
func handleHealth(service *ingest.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"metrics": service.Metrics().Snapshot(),
		})
	}
}

// requestLogger logs each request with its latency and a request ID.
// An incoming X-Request-ID is honored so callers can correlate logs.
func requestLogger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		log.WithRequestID(requestID).Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// corsMiddleware adds CORS headers to allow dashboard access.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept-Encoding, Authorization, "+
				"accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// StartHTTPServer builds the HTTP server around the configured router.
func StartHTTPServer(p Params, cfg *config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           SetupRouter(p),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
