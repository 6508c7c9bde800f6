package repository

import (
	"gorm.io/gorm"

	"sgea/backend/internal/model"
)

// AutoMigrate 按模型同步表结构，仅用于 SQLite 本地开发与测试；
// PostgreSQL 使用 pkg/database 中的版本化迁移。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Person{},
		&model.Event{},
		&model.Enrollment{},
		&model.Work{},
		&model.Evaluation{},
		&model.Certificate{},
	)
}
