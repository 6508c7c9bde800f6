package dto

// ── 认证模块响应 ──

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresIn   int            `json:"expires_in"` // 有效期（秒）
	Person      PersonResponse `json:"person"`
}

// ── 人员模块响应 ──

// PersonResponse 人员信息（脱敏）
type PersonResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
}

// ── 活动模块响应 ──

// EventResponse 活动详情
type EventResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	Location             string `json:"location"`
	Capacity             int    `json:"capacity"`
	ActiveEnrollments    int    `json:"active_enrollments"`
	AvailableSeats       int    `json:"available_seats"`
	SubmissionStart      string `json:"submission_start,omitempty"`
	SubmissionEnd        string `json:"submission_end,omitempty"`
	CancellationDeadline string `json:"cancellation_deadline"`
	OrganizerID          string `json:"organizer_id"`
}

// ── 报名模块响应 ──

// EnrollmentResponse 报名记录
type EnrollmentResponse struct {
	ID                  string          `json:"id"`
	EventID             string          `json:"event_id"`
	PersonID            string          `json:"person_id"`
	EnrolledOn          string          `json:"enrolled_on"`
	Status              string          `json:"status"`
	AttendanceConfirmed bool            `json:"attendance_confirmed"`
	Person              *PersonResponse `json:"person,omitempty"`
}

// ── 投稿与评审模块响应 ──

// WorkResponse 投稿详情
type WorkResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	FileRef     string `json:"file_ref"`
	AuthorID    string `json:"author_id"`
	EventID     string `json:"event_id"`
	Status      string `json:"status"`
	SubmittedOn string `json:"submitted_on"`
}

// EvaluationResponse 评审记录
type EvaluationResponse struct {
	ID          string  `json:"id"`
	WorkID      string  `json:"work_id"`
	EvaluatorID string  `json:"evaluator_id"`
	Score       float64 `json:"score"`
	Verdict     string  `json:"verdict"`
	EvaluatedOn string  `json:"evaluated_on"`
}

// ── 证书模块响应 ──

// CertificateResponse 证书详情，亦作为公开校验结果
type CertificateResponse struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	ValidationCode string `json:"validation_code"`
	IssuedOn       string `json:"issued_on"`
	PersonID       string `json:"person_id"`
	EventID        string `json:"event_id"`
	WorkID         string `json:"work_id,omitempty"`
}
