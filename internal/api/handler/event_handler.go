package handler

import (
	"github.com/gin-gonic/gin"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// EventHandler 活动模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents 全部活动
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, events, len(events))
}

// ListOpenEvents 仍可报名的活动（开始日晚于今天）
// GET /api/v1/events/open
func (h *EventHandler) ListOpenEvents(c *gin.Context) {
	events, err := h.eventSvc.ListOpenForEnrollment(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, events, len(events))
}

// ListMyEvents 当前主办者的活动
// GET /api/v1/events/mine
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	events, err := h.eventSvc.ListByOrganizer(c.Request.Context(), organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OKList(c, events, len(events))
}

// GetEvent 活动详情
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, event)
}

// CreateEvent 创建活动
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, event)
}

// UpdateEvent 修改活动（仅主办者）
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req, organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, event)
}

// SetSubmissionWindow 设置投稿期
// PUT /api/v1/events/:id/submission-window
func (h *EventHandler) SetSubmissionWindow(c *gin.Context) {
	var req dto.SetSubmissionWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.SetSubmissionWindow(c.Request.Context(), c.Param("id"), &req, organizerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, event)
}
