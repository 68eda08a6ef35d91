package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadmanager/internal/config"
	"leadmanager/internal/domain/lead"
	"leadmanager/internal/middleware"
)

// NewRouter assembles the HTTP surface: health and metrics endpoints, the
// versioned lead API and a JSON catch-all for unknown routes.
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log, cfg.HTTP.SlowRequest),
		middleware.Security(),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
		middleware.Metrics(),
	)

	health := &healthHandler{db: db, startTime: time.Now()}
	r.GET("/healthz", health.handle)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	leadHandler := lead.NewHandler(lead.NewService(lead.NewRepository(db)))

	v1 := r.Group("/v1")
	lead.RegisterRoutes(v1, leadHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
			"path":    c.Request.URL.Path,
		})
	})

	return r
}
