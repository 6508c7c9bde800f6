package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateType 证书类型
type CertificateType string

const (
	CertificateParticipation    CertificateType = "participation"
	CertificateWorkPresentation CertificateType = "work_presentation"
	CertificateOrganization     CertificateType = "organization"
)

// ValidationCodeLength 校验码长度
const ValidationCodeLength = 8

// Certificate 证书表：对应 certificates，签发后不可修改
// 自然键 (type, person, event, work) 唯一；WorkID 仅 work_presentation 类型填写。
type Certificate struct {
	CertificateID  string          `gorm:"type:varchar(36);primaryKey"                  json:"certificate_id"`
	Type           CertificateType `gorm:"type:varchar(30);not null;uniqueIndex:uk_certificate_natural" json:"type"`
	ValidationCode string          `gorm:"type:varchar(16);not null;uniqueIndex"        json:"validation_code"`
	IssuedOn       time.Time       `gorm:"type:date;not null"                           json:"issued_on"`
	PersonID       string          `gorm:"type:varchar(36);not null;uniqueIndex:uk_certificate_natural;index" json:"person_id"`
	EventID        string          `gorm:"type:varchar(36);not null;uniqueIndex:uk_certificate_natural"       json:"event_id"`
	WorkID         string          `gorm:"type:varchar(36);not null;default:'';uniqueIndex:uk_certificate_natural" json:"work_id,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Certificate) TableName() string { return "certificates" }

// BeforeCreate 生成主键
func (c *Certificate) BeforeCreate(_ *gorm.DB) error {
	if c.CertificateID == "" {
		c.CertificateID = newID()
	}
	return nil
}

// NewValidationCode 生成 8 位大写十六进制校验码（取自随机 UUID）
func NewValidationCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:ValidationCodeLength])
}

// NormalizeValidationCode 去除空白并转大写，便于人工输入
func NormalizeValidationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CertificateKey 证书自然键
type CertificateKey struct {
	Type     CertificateType
	PersonID string
	EventID  string
	WorkID   string
}

// Key 返回证书的自然键
func (c *Certificate) Key() CertificateKey {
	return CertificateKey{Type: c.Type, PersonID: c.PersonID, EventID: c.EventID, WorkID: c.WorkID}
}
