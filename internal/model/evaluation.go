package model

import (
	"time"

	"gorm.io/gorm"
)

// 评分区间
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Evaluation 评审表：对应 evaluations，创建后不可修改
type Evaluation struct {
	EvaluationID string    `gorm:"type:varchar(36);primaryKey"     json:"evaluation_id"`
	WorkID       string    `gorm:"type:varchar(36);not null;index" json:"work_id"`
	EvaluatorID  string    `gorm:"type:varchar(36);not null;index" json:"evaluator_id"`
	Score        float64   `gorm:"not null"                        json:"score"`
	Verdict      string    `gorm:"type:text"                       json:"verdict"`
	EvaluatedOn  time.Time `gorm:"type:date;not null"              json:"evaluated_on"`
	BaseModel
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// BeforeCreate 生成主键
func (ev *Evaluation) BeforeCreate(_ *gorm.DB) error {
	if ev.EvaluationID == "" {
		ev.EvaluationID = newID()
	}
	return nil
}
