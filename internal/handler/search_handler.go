package handler

import (
	"errors"
	"net/http"

	"bench-match-go/internal/service"
	"bench-match-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SearchHandler 结构体定义了匹配搜索与 shortlist 查询相关的处理器。
type SearchHandler struct {
	searchService    service.SearchService
	shortlistService service.ShortlistService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService, shortlistService service.ShortlistService) *SearchHandler {
	return &SearchHandler{
		searchService:    searchService,
		shortlistService: shortlistService,
	}
}

// Search 是处理匹配搜索请求的 Gin 处理函数。
func (h *SearchHandler) Search(c *gin.Context) {
	var req service.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("[SearchHandler] 搜索请求失败: 无效的请求负载, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
		return
	}
	log.Infof("[SearchHandler] 收到搜索请求, requirementID: '%s', topN: %d, allowPartial: %t",
		req.RequirementID, req.TopN, req.AllowPartial)

	resp, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequirement):
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error(), "data": nil})
		case errors.Is(err, service.ErrRequirementNotFound):
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "需求不存在", "data": nil})
		case errors.Is(err, service.ErrRetrieval):
			log.Errorf("[SearchHandler] 检索失败, error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"code": http.StatusBadGateway, "message": "检索服务不可用", "data": nil})
		default:
			log.Errorf("[SearchHandler] 搜索服务返回错误, error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "搜索失败", "data": nil})
		}
		return
	}

	log.Infof("[SearchHandler] 搜索成功, 返回 %d 名候选人", len(resp.Candidates))
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": resp, "message": "success"})
}

// Shortlist 返回某需求最近一次的 shortlist。
func (h *SearchHandler) Shortlist(c *gin.Context) {
	requirementID := c.Param("requirementId")
	view, err := h.shortlistService.Latest(c.Request.Context(), requirementID)
	if err != nil {
		if errors.Is(err, service.ErrShortlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "shortlist 不存在", "data": nil})
			return
		}
		log.Errorf("[SearchHandler] 获取 shortlist 失败, requirementID: %s, error: %v", requirementID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取 shortlist 失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": view, "message": "success"})
}

// Breakdown 返回某候选人在最近一次 shortlist 中的完整评分明细。
func (h *SearchHandler) Breakdown(c *gin.Context) {
	requirementID := c.Param("requirementId")
	employeeID := c.Param("employeeId")
	result, err := h.shortlistService.Breakdown(c.Request.Context(), requirementID, employeeID)
	if err != nil {
		if errors.Is(err, service.ErrShortlistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "候选人不在 shortlist 中", "data": nil})
			return
		}
		log.Errorf("[SearchHandler] 获取评分明细失败, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取评分明细失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": result, "message": "success"})
}
