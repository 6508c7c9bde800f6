package dto

// EnrollRequest 报名请求，报名人取自当前登录用户
type EnrollRequest struct {
	EventID string `json:"event_id" binding:"required"`
}
