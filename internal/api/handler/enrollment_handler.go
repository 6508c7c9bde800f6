package handler

import (
	"github.com/gin-gonic/gin"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// EnrollmentHandler 报名模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Enroll 当前人员报名活动
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	personID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Enroll(c.Request.Context(), personID, req.EventID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, enrollment)
}

// CancelEnrollment 取消本人报名
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
	personID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Cancel(c.Request.Context(), c.Param("id"), personID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ConfirmAttendance 主办者确认出席
// POST /api/v1/enrollments/:id/attendance
func (h *EnrollmentHandler) ConfirmAttendance(c *gin.Context) {
	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.ConfirmAttendance(c.Request.Context(), c.Param("id"), organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, enrollment)
}

// ListMyEnrollments 本人报名记录
// GET /api/v1/enrollments/mine
func (h *EnrollmentHandler) ListMyEnrollments(c *gin.Context) {
	personID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.ListByPerson(c.Request.Context(), personID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, list, len(list))
}

// ListEventEnrollments 活动报名名单（仅主办者）
// GET /api/v1/events/:id/enrollments
func (h *EnrollmentHandler) ListEventEnrollments(c *gin.Context) {
	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	list, err := h.enrollmentSvc.ListByEvent(c.Request.Context(), c.Param("id"), organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, list, len(list))
}
