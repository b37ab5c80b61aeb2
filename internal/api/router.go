package api

import (
	"go-log-analyzer/internal/api/handler"
	"go-log-analyzer/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RegisterRoutes wires all API routes into the router. The router matches
// in registration order, so the suffixed analysis routes come before the
// bare wildcard.
func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/analyses", handler.CreateAnalysis)
	r.GET("/api/v1/analyses", handler.ListAnalyses)

	r.GET("/api/v1/analyses/*/errors", handler.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/progress", handler.GetAnalysisProgress)
	r.GET("/api/v1/analyses/*/report", handler.GetAnalysisReport)
	r.POST("/api/v1/analyses/*/retry", handler.RetryAnalysis)
	r.GET("/api/v1/analyses/*", handler.GetAnalysis)

	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}
