package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	searchService    *services.SearchService
}

func NewDashboardHandler(dashboardService *services.DashboardService, searchService *services.SearchService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		searchService:    searchService,
	}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dashboard)
}

// GetStats GET /api/stats?period=week|month|quarter|year
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, stats)
}

// Search GET /api/search?q=&type=&limit=
func (h *DashboardHandler) Search(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "요청 파라미터가 올바르지 않습니다.")
			return
		}
		limit = n
	}

	result, err := h.searchService.Search(c.Request.Context(), c.Query("q"), c.Query("type"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, result)
}

type HealthHandler struct {
	db      *gorm.DB
	version string
}

func NewHealthHandler(db *gorm.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Health 응답은 envelope 없이 {status, timestamp, version}
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"version":   h.version,
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logrus.WithError(err).Warn("헬스 체크: 데이터베이스 응답 없음")
		body["status"] = "DEGRADED"
		body["database"] = "down"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body["database"] = "up"
	c.JSON(http.StatusOK, body)
}
