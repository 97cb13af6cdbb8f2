package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tarifario/internal/handler"
	"tarifario/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	docH *handler.DocumentHandler,
	healthH *handler.HealthHandler,
	log logrus.FieldLogger,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	documents := v1.Group("/documents")
	documents.POST("", docH.Process)
	documents.GET("", docH.List)
	documents.GET("/:id", docH.GetByID)
	documents.GET("/:id/report", docH.GetReport)
	documents.GET("/:id/export", docH.Export)

	v1.GET("/services/:business_line", docH.ListServices)

	return r
}
