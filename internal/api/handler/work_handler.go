package handler

import (
	"github.com/gin-gonic/gin"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// WorkHandler 投稿模块 HTTP 处理器
type WorkHandler struct {
	workSvc service.WorkService
}

// NewWorkHandler 创建 WorkHandler
func NewWorkHandler(workSvc service.WorkService) *WorkHandler {
	return &WorkHandler{workSvc: workSvc}
}

// SubmitWork 投稿
// POST /api/v1/works
func (h *WorkHandler) SubmitWork(c *gin.Context) {
	var req dto.SubmitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	authorID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	work, err := h.workSvc.Submit(c.Request.Context(), &req, authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, work)
}

// GetWork 投稿详情
// GET /api/v1/works/:id
func (h *WorkHandler) GetWork(c *gin.Context) {
	work, err := h.workSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, work)
}

// ListMyWorks 本人投稿
// GET /api/v1/works/mine
func (h *WorkHandler) ListMyWorks(c *gin.Context) {
	authorID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	works, err := h.workSvc.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, works, len(works))
}

// ListUnderReview 评审中的投稿
// GET /api/v1/works/under-review
func (h *WorkHandler) ListUnderReview(c *gin.Context) {
	works, err := h.workSvc.ListUnderReview(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, works, len(works))
}

// ListEventWorks 活动的全部投稿
// GET /api/v1/events/:id/works
func (h *WorkHandler) ListEventWorks(c *gin.Context) {
	works, err := h.workSvc.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, works, len(works))
}

// AssignEvaluator 指派评审人
// POST /api/v1/works/:id/evaluator
func (h *WorkHandler) AssignEvaluator(c *gin.Context) {
	var req dto.AssignEvaluatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	work, err := h.workSvc.AssignEvaluator(c.Request.Context(), c.Param("id"), req.EvaluatorID, organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, work)
}

// OverrideStatus 直接设置投稿状态（录用、拒绝、已报告）
// PUT /api/v1/works/:id/status
func (h *WorkHandler) OverrideStatus(c *gin.Context) {
	var req dto.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	actorID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	work, err := h.workSvc.OverrideStatus(c.Request.Context(), c.Param("id"), req.Status, actorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, work)
}
