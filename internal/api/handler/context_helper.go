package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"sgea/backend/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	ctxPersonID = "person_id"
	ctxRole     = "role"
	ctxTokenJTI = "token_jti"
	ctxTokenExp = "token_exp"
)

// MustGetPersonID 从 Gin 上下文中安全提取 person_id。
// 如果 JWT 中间件未正确注入 person_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetPersonID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxPersonID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxRole)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// tokenInfo 当前请求 Token 的 jti 与过期时间；缺失时返回零值
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ctxTokenJTI)
	exp, _ := c.Get(ctxTokenExp)
	expiresAt, _ := exp.(time.Time)
	return jti, expiresAt
}
