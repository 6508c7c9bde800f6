package dto

// ── 活动模块 DTO ──
// 日期字段统一为 yyyy-MM-dd

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Name            string  `json:"name"             binding:"required,max=200"`
	Description     string  `json:"description"`
	StartDate       string  `json:"start_date"       binding:"required"`
	EndDate         string  `json:"end_date"         binding:"required"`
	Location        string  `json:"location"         binding:"omitempty,max=200"`
	Capacity        int     `json:"capacity"         binding:"required"`
	SubmissionStart *string `json:"submission_start"`
	SubmissionEnd   *string `json:"submission_end"`
}

// UpdateEventRequest 更新活动请求（仅主办者）
type UpdateEventRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=200"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Capacity    *int    `json:"capacity"`
}

// SetSubmissionWindowRequest 设置投稿期请求
type SetSubmissionWindowRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end"   binding:"required"`
}
