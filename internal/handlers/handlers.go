package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"event-dataset-processor/internal/metrics"
	"event-dataset-processor/internal/models"
	"event-dataset-processor/internal/pipeline"
	"event-dataset-processor/internal/scheduler"
)

// Refresher is the part of the scheduler the handlers depend on
type Refresher interface {
	RunOnce() error
	Latest() (*pipeline.Result, error)
	IsRunning() bool
	GetNextRun() time.Time
	GetLastRun() time.Time
}

// Handlers contains all HTTP handlers
type Handlers struct {
	scheduler Refresher
	metrics   *metrics.Metrics
}

// NewHandlers creates new HTTP handlers
func NewHandlers(s Refresher, m *metrics.Metrics) *Handlers {
	return &Handlers{scheduler: s, metrics: m}
}

// SetupRoutes registers all routes on router
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/summary", h.GetSummary)
		api.GET("/analysis", h.GetAnalysis)
		api.POST("/refresh", h.Refresh)
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Dataset:   "ok",
		Scheduler: make(map[string]string),
	}

	latest, err := h.scheduler.Latest()
	switch {
	case err != nil:
		response.Status = "degraded"
		response.Dataset = err.Error()
	case latest == nil:
		response.Status = "error"
		response.Dataset = "not loaded"
	}

	if h.scheduler.IsRunning() {
		response.Scheduler["state"] = "running"
		response.Scheduler["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
	} else {
		response.Scheduler["state"] = "stopped"
	}
	if last := h.scheduler.GetLastRun(); !last.IsZero() {
		response.Scheduler["last_run"] = last.Format(time.RFC3339)
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetSummary returns the guarded summary of the latest run
func (h *Handlers) GetSummary(c *gin.Context) {
	latest, ok := h.latest(c)
	if !ok {
		return
	}

	entries := 0
	if latest.Document != nil {
		entries = len(latest.Document.Entries)
	}

	c.JSON(http.StatusOK, models.SummaryResponse{
		Source:     latest.Source,
		FinishedAt: latest.FinishedAt,
		Entries:    entries,
		Rows:       len(latest.Rows),
		Summary:    latest.Summary,
		ExportPath: latest.ExportPath,
	})
}

// GetAnalysis returns the full statistics of the latest run
func (h *Handlers) GetAnalysis(c *gin.Context) {
	latest, ok := h.latest(c)
	if !ok {
		return
	}

	if latest.Analysis == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Empty dataset",
			Message: "the dataset has no rows to analyze",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, latest.Analysis)
}

// Refresh re-runs the pipeline immediately
func (h *Handlers) Refresh(c *gin.Context) {
	if err := h.scheduler.RunOnce(); err != nil {
		logrus.Errorf("Manual refresh failed: %v", err)
		code := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrStopped) {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, models.ErrorResponse{
			Error:   "Refresh failed",
			Message: err.Error(),
			Code:    code,
		})
		return
	}

	h.GetSummary(c)
}

func (h *Handlers) latest(c *gin.Context) (*pipeline.Result, bool) {
	latest, _ := h.scheduler.Latest()
	if latest == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Dataset not loaded",
			Message: "no successful pipeline run yet",
			Code:    http.StatusServiceUnavailable,
		})
		return nil, false
	}
	return latest, true
}
