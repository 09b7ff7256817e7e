package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lordbaah/photodrop/internal/config"
	"github.com/lordbaah/photodrop/internal/contact"
	"github.com/lordbaah/photodrop/internal/logger"
	"github.com/lordbaah/photodrop/internal/metrics"
	"github.com/lordbaah/photodrop/internal/photo"
	"github.com/lordbaah/photodrop/internal/tracing"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config   config.Config
	Health   []HealthCheck
	Issuer   *photo.Issuer
	Recorder *photo.Recorder
	Gallery  *photo.Gallery
	Contact  *contact.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	metricsPath := deps.Config.Metrics.PrometheusPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.Use(tracing.Middleware("/health/live", "/health/ready", metricsPath))
	router.Use(cors.New(corsConfig()))

	registerHealthRoutes(router, deps.Health)
	metrics.Register(router, metricsPath)

	api := router.Group("/")
	if deps.Issuer != nil && deps.Recorder != nil && deps.Gallery != nil {
		photo.RegisterRoutes(api, deps.Issuer, deps.Recorder, deps.Gallery)
	}
	if deps.Contact != nil {
		contact.RegisterRoutes(api, deps.Contact)
	}

	return router
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key", "X-Amz-Security-Token"}
	cfg.ExposeHeaders = []string{logger.CorrelationIDHeader}
	return cfg
}
