package repository

import (
	"context"

	"gorm.io/gorm"

	"sgea/backend/internal/model"
)

// CertificateRepository 证书数据访问接口（证书只增不改）
type CertificateRepository interface {
	// Create 违反唯一约束时返回 gorm.ErrDuplicatedKey（需开启 TranslateError）
	Create(ctx context.Context, cert *model.Certificate) error
	GetByCode(ctx context.Context, code string) (*model.Certificate, error)
	// Exists 按自然键 (type, person, event, work) 判重
	Exists(ctx context.Context, key model.CertificateKey) (bool, error)
	ListByPerson(ctx context.Context, personID string) ([]model.Certificate, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Certificate, error)
}

type certificateRepo struct {
	db *gorm.DB
}

// NewCertificateRepo 创建 CertificateRepository 实例
func NewCertificateRepo(db *gorm.DB) CertificateRepository {
	return &certificateRepo{db: db}
}

// Create 在外层事务中以保存点执行，唯一约束冲突不会中止整个事务
func (r *certificateRepo) Create(ctx context.Context, cert *model.Certificate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(cert).Error
	})
}

func (r *certificateRepo) GetByCode(ctx context.Context, code string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.WithContext(ctx).
		Where("validation_code = ?", code).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepo) Exists(ctx context.Context, key model.CertificateKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Certificate{}).
		Where("type = ? AND person_id = ? AND event_id = ? AND work_id = ?",
			key.Type, key.PersonID, key.EventID, key.WorkID).
		Count(&count).Error
	return count > 0, err
}

func (r *certificateRepo) ListByPerson(ctx context.Context, personID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("issued_on DESC").
		Find(&certs).Error
	return certs, err
}

func (r *certificateRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&certs).Error
	return certs, err
}
