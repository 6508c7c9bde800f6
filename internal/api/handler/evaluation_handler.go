package handler

import (
	"github.com/gin-gonic/gin"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// EvaluationHandler 评审模块 HTTP 处理器
type EvaluationHandler struct {
	evaluationSvc service.EvaluationService
}

// NewEvaluationHandler 创建 EvaluationHandler
func NewEvaluationHandler(evaluationSvc service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationSvc: evaluationSvc}
}

// RegisterEvaluation 当前评审人登记评审
// POST /api/v1/works/:id/evaluations
func (h *EvaluationHandler) RegisterEvaluation(c *gin.Context) {
	var req dto.RegisterEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	evaluatorID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	evaluation, err := h.evaluationSvc.RegisterEvaluation(c.Request.Context(), c.Param("id"), evaluatorID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, evaluation)
}

// ListEvaluations 投稿的全部评审
// GET /api/v1/works/:id/evaluations
func (h *EvaluationHandler) ListEvaluations(c *gin.Context) {
	list, err := h.evaluationSvc.ListByWork(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, list, len(list))
}
