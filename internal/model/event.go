package model

import (
	"time"

	"gorm.io/gorm"
)

// Event 学术活动表：对应 events
//
// ActiveEnrollments 为有效报名计数，与 Version 一同在报名/取消事务中更新，
// 始终满足 ActiveEnrollments <= Capacity。
type Event struct {
	EventID           string     `gorm:"type:varchar(36);primaryKey"   json:"event_id"`
	Name              string     `gorm:"type:varchar(200);not null"    json:"name"`
	Description       string     `gorm:"type:text"                     json:"description"`
	StartDate         time.Time  `gorm:"type:date;not null"            json:"start_date"`
	EndDate           time.Time  `gorm:"type:date;not null"            json:"end_date"`
	Location          string     `gorm:"type:varchar(200)"             json:"location"`
	Capacity          int        `gorm:"not null"                      json:"capacity"`
	ActiveEnrollments int        `gorm:"not null;default:0"            json:"active_enrollments"`
	SubmissionStart   *time.Time `gorm:"type:date"                     json:"submission_start,omitempty"`
	SubmissionEnd     *time.Time `gorm:"type:date"                     json:"submission_end,omitempty"`
	OrganizerID       string     `gorm:"type:varchar(36);not null;index" json:"organizer_id"`
	VersionedModel

	Organizer *Person `gorm:"foreignKey:OrganizerID;references:PersonID" json:"organizer,omitempty"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// BeforeCreate 生成主键
func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.EventID == "" {
		e.EventID = newID()
	}
	return nil
}

// IsFull 有效报名数是否已达上限
func (e *Event) IsFull() bool {
	return e.ActiveEnrollments >= e.Capacity
}

// HasSubmissionWindow 是否配置了投稿期
func (e *Event) HasSubmissionWindow() bool {
	return e.SubmissionStart != nil && e.SubmissionEnd != nil
}

// SubmissionOpen today 是否处于 [SubmissionStart, SubmissionEnd] 闭区间内
func (e *Event) SubmissionOpen(today time.Time) bool {
	if !e.HasSubmissionWindow() {
		return false
	}
	today = Day(today)
	return !today.Before(Day(*e.SubmissionStart)) && !today.After(Day(*e.SubmissionEnd))
}

// CancellationDeadline 取消报名的最后日期：开始日前 CancellationWindowDays 天
func (e *Event) CancellationDeadline() time.Time {
	return Day(e.StartDate).AddDate(0, 0, -CancellationWindowDays)
}

// HasStarted today 是否已到开始日
func (e *Event) HasStarted(today time.Time) bool {
	return !Day(today).Before(Day(e.StartDate))
}

// HasFinished 结束日的次日起视为活动已结束
func (e *Event) HasFinished(today time.Time) bool {
	return !Day(today).Before(Day(e.EndDate).AddDate(0, 0, 1))
}

// OpenForEnrollment 开始日晚于 today 的活动才在报名列表中展示
func (e *Event) OpenForEnrollment(today time.Time) bool {
	return Day(e.StartDate).After(Day(today))
}
