// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bench-match-go/internal/model"
	"bench-match-go/internal/service"
	"bench-match-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// RequirementHandler 负责处理客户需求相关的 API 请求。
type RequirementHandler struct {
	requirementService service.RequirementService
}

// NewRequirementHandler 创建一个新的 RequirementHandler 实例。
func NewRequirementHandler(requirementService service.RequirementService) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService}
}

// Create 处理创建需求的请求。
func (h *RequirementHandler) Create(c *gin.Context) {
	var req model.Requirement
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("[RequirementHandler] 无效的请求负载, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}

	created, err := h.requirementService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequirement) {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error(), "data": nil})
			return
		}
		log.Error("[RequirementHandler] 创建需求失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "创建需求失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": created})
}

// Get 处理按 ID 获取需求的请求。
func (h *RequirementHandler) Get(c *gin.Context) {
	requirementID := c.Param("id")
	resp, err := h.requirementService.Get(c.Request.Context(), requirementID)
	if err != nil {
		if errors.Is(err, service.ErrRequirementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "需求不存在", "data": nil})
			return
		}
		log.Error("[RequirementHandler] 获取需求失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取需求失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": resp})
}

// List 处理需求列表请求，limit 默认 50。
func (h *RequirementHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	list, err := h.requirementService.List(c.Request.Context(), limit)
	if err != nil {
		log.Error("[RequirementHandler] 获取需求列表失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取需求列表失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": list})
}
