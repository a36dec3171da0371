package handler

import (
	"net/http"

	"bench-match-go/internal/service"
	"bench-match-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 提供仪表盘汇总接口。
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler 创建一个新的 DashboardHandler 实例。
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary 返回 bench 人员分布、技能需求与最近的 shortlist。
func (h *DashboardHandler) Summary(c *gin.Context) {
	view, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		log.Errorf("[DashboardHandler] 获取仪表盘数据失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取仪表盘数据失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": view, "message": "success"})
}
