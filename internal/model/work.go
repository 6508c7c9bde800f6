package model

import (
	"time"

	"gorm.io/gorm"
)

// WorkStatus 投稿状态
//
//	submitted → under_review → {approved, approved_with_revisions, rejected} → presented
type WorkStatus string

const (
	WorkSubmitted             WorkStatus = "submitted"
	WorkUnderReview           WorkStatus = "under_review"
	WorkApproved              WorkStatus = "approved"
	WorkApprovedWithRevisions WorkStatus = "approved_with_revisions"
	WorkRejected              WorkStatus = "rejected"
	WorkPresented             WorkStatus = "presented"
)

// Valid 是否为已知状态
func (s WorkStatus) Valid() bool {
	switch s {
	case WorkSubmitted, WorkUnderReview, WorkApproved,
		WorkApprovedWithRevisions, WorkRejected, WorkPresented:
		return true
	}
	return false
}

// Terminal rejected 与 presented 为终态
func (s WorkStatus) Terminal() bool {
	return s == WorkRejected || s == WorkPresented
}

// Work 投稿表：对应 works（单作者）
type Work struct {
	WorkID      string     `gorm:"type:varchar(36);primaryKey"     json:"work_id"`
	Title       string     `gorm:"type:varchar(300);not null"      json:"title"`
	FileRef     string     `gorm:"type:varchar(500);not null"      json:"file_ref"`
	AuthorID    string     `gorm:"type:varchar(36);not null;index" json:"author_id"`
	EventID     string     `gorm:"type:varchar(36);not null;index" json:"event_id"`
	Status      WorkStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	SubmittedOn time.Time  `gorm:"type:date;not null"              json:"submitted_on"`
	BaseModel
}

// TableName 指定表名
func (Work) TableName() string { return "works" }

// BeforeCreate 生成主键
func (w *Work) BeforeCreate(_ *gorm.DB) error {
	if w.WorkID == "" {
		w.WorkID = newID()
	}
	return nil
}

// IsApproved approved、approved_with_revisions 与 presented 均视为已录用
func (w *Work) IsApproved() bool {
	return w.Status == WorkApproved ||
		w.Status == WorkApprovedWithRevisions ||
		w.Status == WorkPresented
}

// IsPresented 是否已完成报告
func (w *Work) IsPresented() bool {
	return w.Status == WorkPresented
}

// Evaluable 仅 submitted 与 under_review 状态可登记评审
func (w *Work) Evaluable() bool {
	return w.Status == WorkSubmitted || w.Status == WorkUnderReview
}
