// Package server exposes the derived dashboard aggregates over a small
// local JSON API for chart front-ends.
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/studyhub/internal/activity"
	"github.com/nhle/studyhub/internal/model"
	studysync "github.com/nhle/studyhub/internal/sync"
)

// maxRecentLimit caps ?limit= on the activity endpoints.
const maxRecentLimit = 100

// SnapshotSource supplies fetched snapshots. *sync.Refresher implements it.
type SnapshotSource interface {
	Fetch(ctx context.Context) studysync.DashboardMsg
	Year() int
	RecentLimit() int
}

// Handler serves the aggregate endpoints.
type Handler struct {
	src SnapshotSource
}

// NewHandler creates a handler backed by src.
func NewHandler(src SnapshotSource) *Handler {
	return &Handler{src: src}
}

// DashboardResponse is the body of GET /api/dashboard.
type DashboardResponse struct {
	Dashboard model.Dashboard `json:"dashboard"`
	Degraded  bool            `json:"degraded"`
	Error     string          `json:"error,omitempty"`
}

// TrendsResponse is the body of GET /api/trends.
type TrendsResponse struct {
	Year     int                     `json:"year"`
	Months   [12]model.MonthlyBucket `json:"months"`
	Degraded bool                    `json:"degraded"`
	Error    string                  `json:"error,omitempty"`
}

// SplitResponse is the body of GET /api/doubts/split.
type SplitResponse struct {
	model.DoubtSplit
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

// ActivityResponse is the body of GET /api/activity.
type ActivityResponse struct {
	Items    []model.ActivityItem `json:"items"`
	Degraded bool                 `json:"degraded"`
	Error    string               `json:"error,omitempty"`
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDashboard handles GET /api/dashboard?year=&limit=.
func (h *Handler) GetDashboard(c *gin.Context) {
	year, ok := h.year(c)
	if !ok {
		return
	}
	limit, ok := h.limit(c)
	if !ok {
		return
	}

	msg := h.src.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, DashboardResponse{
		Dashboard: activity.Derive(msg.Snapshot, year, limit),
		Degraded:  msg.Error != nil,
		Error:     errText(msg.Error),
	})
}

// GetTrends handles GET /api/trends?year=.
func (h *Handler) GetTrends(c *gin.Context) {
	year, ok := h.year(c)
	if !ok {
		return
	}

	msg := h.src.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, TrendsResponse{
		Year:     year,
		Months:   activity.MonthlyTrends(msg.Snapshot, year),
		Degraded: msg.Error != nil,
		Error:    errText(msg.Error),
	})
}

// GetDoubtSplit handles GET /api/doubts/split.
func (h *Handler) GetDoubtSplit(c *gin.Context) {
	msg := h.src.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, SplitResponse{
		DoubtSplit: activity.SplitDoubts(msg.Snapshot.Doubts),
		Degraded:   msg.Error != nil,
		Error:      errText(msg.Error),
	})
}

// GetActivity handles GET /api/activity?limit=.
func (h *Handler) GetActivity(c *gin.Context) {
	limit, ok := h.limit(c)
	if !ok {
		return
	}

	msg := h.src.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, ActivityResponse{
		Items:    activity.RecentActivity(msg.Snapshot, limit),
		Degraded: msg.Error != nil,
		Error:    errText(msg.Error),
	})
}

func (h *Handler) year(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return h.src.Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a four-digit number"})
		return 0, false
	}
	return year, true
}

func (h *Handler) limit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return h.src.RecentLimit(), true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 || limit > maxRecentLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 0 and 100"})
		return 0, false
	}
	return limit, true
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
