package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxviazov/company-employees-service/internal/query"
	"github.com/maxviazov/company-employees-service/internal/service"
)

// Options carries the boundary settings handlers need from config.
type Options struct {
	// HateoasMediaType is the Accept value that turns on hypermedia links.
	HateoasMediaType string
	Limits           query.Limits
	// Storage names the configured backend for readiness output.
	Storage string
}

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, companySvc service.CompanyService, employeeSvc service.EmployeeService, opts Options) {
	h := NewHealthHandler(opts.Storage, repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIPrefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewCompanyHandler(companySvc).Register(api)
		NewEmployeeHandler(employeeSvc, opts.Limits).Register(api, ValidateMediaType(opts.HateoasMediaType))
	}
}
