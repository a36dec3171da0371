package repository

import (
	"context"

	"bench-match-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CorpusEntryRepository 定义了对 corpus_entries 表的数据操作接口。
type CorpusEntryRepository interface {
	Upsert(ctx context.Context, record *model.CorpusEntryRecord) error
	FindByEmployeeID(ctx context.Context, employeeID string) (*model.CorpusEntryRecord, error)
	Count(ctx context.Context) (int64, error)
}

type corpusEntryRepository struct {
	db *gorm.DB
}

// NewCorpusEntryRepository 创建一个新的 CorpusEntryRepository 实例。
func NewCorpusEntryRepository(db *gorm.DB) CorpusEntryRepository {
	return &corpusEntryRepository{db: db}
}

// Upsert 以 employee_id 为主键写入，冲突时覆盖全部列。
func (r *corpusEntryRepository) Upsert(ctx context.Context, record *model.CorpusEntryRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text_content", "content_hash", "model_version", "updated_at"}),
	}).Create(record).Error
}

func (r *corpusEntryRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*model.CorpusEntryRecord, error) {
	var record model.CorpusEntryRecord
	if err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *corpusEntryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CorpusEntryRecord{}).Count(&n).Error
	return n, err
}
