package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"leadmanager/internal/database"
)

const version = "1.0.0"

type healthHandler struct {
	db        *gorm.DB
	startTime time.Time
}

type healthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *healthHandler) handle(c *gin.Context) {
	deps := make(map[string]string)

	if h.db == nil {
		deps["database"] = "not configured"
	} else if err := database.Ping(c.Request.Context(), h.db); err != nil {
		deps["database"] = "unhealthy: " + err.Error()
	} else {
		deps["database"] = "healthy"
	}

	status := "healthy"
	code := http.StatusOK
	if deps["database"] != "healthy" {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, healthResponse{
		Status:       status,
		Version:      version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
