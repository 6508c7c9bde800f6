package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "sgea/backend/pkg/errors"
	"sgea/backend/pkg/response"
)

// errorMapping 错误类别 → 响应函数与业务码
type errorMapping struct {
	kind    error
	respond func(c *gin.Context, code int, message string)
	code    int
}

var errorMappings = []errorMapping{
	{pkgerrors.ErrInvalidArgument, response.BadRequest, 20001},
	{pkgerrors.ErrScoreOutOfRange, response.BadRequest, 20002},
	{pkgerrors.ErrNotFound, response.NotFound, 20003},
	{pkgerrors.ErrForbidden, response.Forbidden, 20004},
	{pkgerrors.ErrRoleMismatch, response.Forbidden, 20005},
	{pkgerrors.ErrInvalidState, response.Unprocessable, 20006},
	{pkgerrors.ErrWindowClosed, response.Unprocessable, 20007},
	{pkgerrors.ErrTooEarly, response.Unprocessable, 20008},
	{pkgerrors.ErrCapacityExceeded, response.Conflict, 20009},
	{pkgerrors.ErrDuplicateActiveEnrollment, response.Conflict, 20010},
	{pkgerrors.ErrAlreadyIssued, response.Conflict, 20011},
	{pkgerrors.ErrOptimisticLock, response.Conflict, 20012},
}

// handleServiceError 按错误类别写入响应；未归类的错误一律 500
func handleServiceError(c *gin.Context, err error) {
	kind := pkgerrors.Kind(err)
	if kind == nil {
		response.InternalError(c)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(kind, m.kind) {
			m.respond(c, m.code, err.Error())
			return
		}
	}
	response.InternalError(c)
}

// bindFailed 请求体绑定失败；超出 BodyLimit 时返回 413
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}
