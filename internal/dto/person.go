package dto

// ── 人员模块 DTO ──

// RegisterPersonRequest 人员注册请求
// 角色在注册时确定：participant / organizer / evaluator
type RegisterPersonRequest struct {
	FullName    string `json:"full_name"   binding:"required,max=150"`
	Email       string `json:"email"       binding:"required,max=255"`
	Institution string `json:"institution" binding:"omitempty,max=200"`
	Role        string `json:"role"        binding:"required,oneof=participant organizer evaluator"`
	Password    string `json:"password"    binding:"required,min=8,max=72"`
}

// UpdatePersonRequest 更新人员信息请求（仅本人）
type UpdatePersonRequest struct {
	FullName    *string `json:"full_name"   binding:"omitempty,max=150"`
	Email       *string `json:"email"       binding:"omitempty,max=255"`
	Institution *string `json:"institution" binding:"omitempty,max=200"`
	Role        *string `json:"role"        binding:"omitempty,oneof=participant organizer evaluator"`
}
