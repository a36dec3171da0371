package handler

import (
	"context"
	"net/http"

	"bench-match-go/internal/pipeline"
	"bench-match-go/pkg/log"
	"bench-match-go/pkg/tasks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CorpusSyncer 同步执行语料构建。
type CorpusSyncer interface {
	Sync(ctx context.Context, ids []string) (*pipeline.SyncReport, error)
}

// TaskPublisher 将语料同步任务投递到消息队列。
type TaskPublisher interface {
	PublishCorpusSync(ctx context.Context, task tasks.CorpusSyncTask) error
}

// AdminHandler 负责处理语料管理相关的 API 请求。
type AdminHandler struct {
	syncer    CorpusSyncer
	publisher TaskPublisher
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。publisher 为 nil 时总是同步执行。
func NewAdminHandler(syncer CorpusSyncer, publisher TaskPublisher) *AdminHandler {
	return &AdminHandler{syncer: syncer, publisher: publisher}
}

// CorpusSyncRequest 定义了语料同步 API 的请求体结构。
type CorpusSyncRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	// Wait 为 true 时同步执行并返回统计结果。
	Wait bool `json:"wait"`
}

// SyncCorpus 投递或同步执行一次语料同步。
func (h *AdminHandler) SyncCorpus(c *gin.Context) {
	var req CorpusSyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求负载", "data": nil})
			return
		}
	}

	if !req.Wait && h.publisher != nil {
		task := tasks.CorpusSyncTask{
			TaskID:      uuid.NewString(),
			EmployeeIDs: req.EmployeeIDs,
			RequestedBy: c.ClientIP(),
		}
		if err := h.publisher.PublishCorpusSync(c.Request.Context(), task); err != nil {
			log.Error("[AdminHandler] 投递语料同步任务失败", err)
			c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "投递语料同步任务失败", "data": nil})
			return
		}
		log.Infof("[AdminHandler] 语料同步任务已投递, TaskID: %s", task.TaskID)
		c.JSON(http.StatusAccepted, gin.H{"code": http.StatusAccepted, "message": "success", "data": gin.H{"task_id": task.TaskID}})
		return
	}

	report, err := h.syncer.Sync(c.Request.Context(), req.EmployeeIDs)
	if err != nil {
		log.Error("[AdminHandler] 语料同步失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "语料同步失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": report})
}
