package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出报名名单
// GET /api/v1/events/:id/export/roster
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	organizerID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), c.Param("id"), organizerID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, xlsxContentType, filename, buf.Bytes())
}

// ExportCalendar 导出活动日程（公开）
// GET /api/v1/events/:id/export/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, icsContentType, filename, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExportGenerateFail) {
		response.InternalError(c)
		return
	}
	handleServiceError(c, err)
}
