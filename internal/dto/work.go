package dto

// ── 投稿与评审模块 DTO ──

// SubmitWorkRequest 投稿请求，作者取自当前登录用户
type SubmitWorkRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Title   string `json:"title"    binding:"required,max=300"`
	FileRef string `json:"file_ref" binding:"required,max=500"`
}

// AssignEvaluatorRequest 指派评审人请求
type AssignEvaluatorRequest struct {
	EvaluatorID string `json:"evaluator_id" binding:"required"`
}

// OverrideStatusRequest 直接设置投稿状态请求
type OverrideStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterEvaluationRequest 登记评审请求
// Score 使用指针，0 分是合法输入
type RegisterEvaluationRequest struct {
	Score   *float64 `json:"score"   binding:"required"`
	Verdict string   `json:"verdict"`
}
