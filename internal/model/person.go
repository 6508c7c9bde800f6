package model

import "gorm.io/gorm"

// Role 人员角色，创建时确定
type Role string

const (
	RoleParticipant Role = "participant"
	RoleOrganizer   Role = "organizer"
	RoleEvaluator   Role = "evaluator"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleParticipant, RoleOrganizer, RoleEvaluator:
		return true
	}
	return false
}

// Person 人员表：对应 persons
type Person struct {
	PersonID     string `gorm:"type:varchar(36);primaryKey"            json:"person_id"`
	FullName     string `gorm:"type:varchar(150);not null"             json:"full_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Institution  string `gorm:"type:varchar(200)"                      json:"institution"`
	Role         Role   `gorm:"type:varchar(20);not null"              json:"role"`
	PasswordHash string `gorm:"type:varchar(255);not null"             json:"-"`
	BaseModel
}

// TableName 指定表名
func (Person) TableName() string { return "persons" }

// BeforeCreate 生成主键
func (p *Person) BeforeCreate(_ *gorm.DB) error {
	if p.PersonID == "" {
		p.PersonID = newID()
	}
	return nil
}
