package repository

import (
	"context"

	"bench-match-go/internal/model"

	"gorm.io/gorm"
)

// RequirementRepository 定义了对 requirements 表的数据操作接口。
type RequirementRepository interface {
	Create(ctx context.Context, record *model.RequirementRecord) error
	FindByID(ctx context.Context, requirementID string) (*model.RequirementRecord, error)
	List(ctx context.Context, limit int) ([]model.RequirementRecord, error)
}

type requirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository 创建一个新的 RequirementRepository 实例。
func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) Create(ctx context.Context, record *model.RequirementRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByID 未找到时返回 gorm.ErrRecordNotFound。
func (r *requirementRepository) FindByID(ctx context.Context, requirementID string) (*model.RequirementRecord, error) {
	var record model.RequirementRecord
	if err := r.db.WithContext(ctx).Where("requirement_id = ?", requirementID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List 按创建时间倒序返回最近的需求。
func (r *requirementRepository) List(ctx context.Context, limit int) ([]model.RequirementRecord, error) {
	var records []model.RequirementRecord
	q := r.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}
