package api

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cityops-io/cityops-ce/internal/config"
	"github.com/cityops-io/cityops-ce/internal/export"
	"github.com/cityops-io/cityops-ce/internal/middleware"
	"github.com/cityops-io/cityops-ce/internal/service"
	"github.com/cityops-io/cityops-ce/internal/version"
)

// SnapshotInfo is implemented by record sources that can report when their
// data was last loaded.
type SnapshotInfo interface {
	LoadedAt() time.Time
}

type Router struct {
	engine   *gin.Engine
	services *service.Services
	exporter *export.Exporter
	cfg      *config.Config
	snapshot SnapshotInfo
	logger   *log.Logger
	debug    bool
	now      func() time.Time
}

// NewRouter wires the HTTP API to services. snapshot may be nil.
func NewRouter(services *service.Services, cfg *config.Config, snapshot SnapshotInfo) *Router {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	if cfg.Metrics.Enabled {
		engine.Use(middleware.Metrics(cfg.Metrics.Path))
	}

	return &Router{
		engine:   engine,
		services: services,
		exporter: export.NewExporter(cfg.ExportOptions()),
		cfg:      cfg,
		snapshot: snapshot,
		logger:   log.New(os.Stdout, "[API] ", log.LstdFlags),
		debug:    cfg.Logging.IsDebug(),
		now:      time.Now,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.healthCheck)
	if r.cfg.Metrics.Enabled {
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/dashboard", r.getDashboard)
		v1.GET("/analytics", r.getAnalytics)

		reports := v1.Group("/reports")
		{
			reports.GET("", r.listReports)
			reports.GET("/summary", r.getReportSummary)
			reports.GET("/export", r.exportReports)
			reports.GET("/:id", r.getReport)
		}

		users := v1.Group("/users")
		{
			users.GET("", r.listUsers)
			users.GET("/summary", r.getUserSummary)
		}

		departments := v1.Group("/departments")
		{
			departments.GET("", r.listDepartments)
			departments.GET("/summary", r.getDepartmentSummary)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", r.listNotifications)
			notifications.GET("/summary", r.getNotificationSummary)
			notifications.GET("/templates", r.listTemplates)
			notifications.GET("/templates/:id/preview", r.previewTemplate)
		}

		mapGroup := v1.Group("/map")
		{
			mapGroup.GET("/config", r.getMapConfig)
			mapGroup.GET("/markers", r.listMarkers)
		}
	}

	r.engine.GET("/ws/reports", r.liveReportFilter)

	r.engine.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found")
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "cityops-api",
		"version": version.Short(),
	}
	if r.snapshot != nil {
		body["records_loaded_at"] = r.snapshot.LoadedAt()
	}
	c.JSON(http.StatusOK, body)
}
