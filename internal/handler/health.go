package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is what readiness needs from the storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage string
	pinger  Pinger
}

// NewHealthHandler builds the probes; storage names the backend in readiness
// output (postgres or memory).
func NewHealthHandler(storage string, p Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, pinger: p}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness reports 503 until the company and employee store answers.
func (h *HealthHandler) Readiness(c *gin.Context) {
	body := gin.H{"storage": h.storage}
	switch {
	case h.pinger == nil:
		body["status"], body["error"] = "unavailable", "no storage configured"
		c.JSON(http.StatusServiceUnavailable, body)
	default:
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			body["status"], body["error"] = "unavailable", err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
	}
}
