// Package main provides the course advisor API server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartadvisors/course-advisor-go/internal/config"
	"github.com/smartadvisors/course-advisor-go/internal/storage"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, api *apiHandler, db *storage.DB, registry *prometheus.Registry, cfg *config.Config) {
	// Liveness probe - checks only that the process is serving.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - database check plus cached data counts.
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		courseCount, _ := db.CountCourses(c.Request.Context())
		offeringCount, _ := db.CountOfferings(c.Request.Context())
		professorCount, _ := db.CountProfessors(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"cache": gin.H{
				"courses":    courseCount,
				"offerings":  offeringCount,
				"professors": professorCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Recommendation API
	apiGroup := router.Group("/api")
	apiGroup.POST("/recommendations", api.handleRecommendations)
	apiGroup.POST("/parse-transcript", api.handleParseTranscript)

	// Prometheus metrics endpoint, behind basic auth when a password is set.
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
