package model

import (
	"time"

	"gorm.io/gorm"
)

// CancellationWindowDays 活动开始前多少天截止取消报名
const CancellationWindowDays = 2

// EnrollmentStatus 报名状态
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment 报名表：对应 enrollments
// 同一 (person, event) 至多一条 active 记录；取消后可重新报名（新建记录）。
type Enrollment struct {
	EnrollmentID        string           `gorm:"type:varchar(36);primaryKey"     json:"enrollment_id"`
	EventID             string           `gorm:"type:varchar(36);not null;index" json:"event_id"`
	PersonID            string           `gorm:"type:varchar(36);not null;index" json:"person_id"`
	EnrolledOn          time.Time        `gorm:"type:date;not null"              json:"enrolled_on"`
	Status              EnrollmentStatus `gorm:"type:varchar(20);not null"       json:"status"`
	AttendanceConfirmed bool             `gorm:"not null;default:false"          json:"attendance_confirmed"`
	BaseModel

	Person *Person `gorm:"foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }

// BeforeCreate 生成主键
func (en *Enrollment) BeforeCreate(_ *gorm.DB) error {
	if en.EnrollmentID == "" {
		en.EnrollmentID = newID()
	}
	return nil
}

// IsActive 是否为有效报名
func (en *Enrollment) IsActive() bool {
	return en.Status == EnrollmentActive
}

// Attended 有效且已确认出席
func (en *Enrollment) Attended() bool {
	return en.IsActive() && en.AttendanceConfirmed
}

// CanCancel 有效报名且 today 不晚于活动的取消截止日
func (en *Enrollment) CanCancel(event *Event, today time.Time) bool {
	if !en.IsActive() {
		return false
	}
	return !Day(today).After(event.CancellationDeadline())
}
