package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/service"
	"sgea/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 邮箱密码登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
			return
		}
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出：当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, expiresAt := tokenInfo(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, expiresAt); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// Me 当前登录人员
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	personID, ok := MustGetPersonID(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), personID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, me)
}
