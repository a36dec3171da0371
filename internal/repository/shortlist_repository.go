package repository

import (
	"context"

	"bench-match-go/internal/model"

	"gorm.io/gorm"
)

// ShortlistRepository 定义了 shortlist 快照的持久化操作。
type ShortlistRepository interface {
	// Save 在一个事务中写入 shortlist 及其候选人。
	Save(ctx context.Context, shortlist *model.Shortlist, candidates []model.ShortlistCandidate) error
	// FindLatest 返回某需求最近一次的 shortlist 及按名次排序的候选人。
	FindLatest(ctx context.Context, requirementID string) (*model.Shortlist, []model.ShortlistCandidate, error)
	// FindCandidate 返回某需求下某员工最近一次的候选记录。
	FindCandidate(ctx context.Context, requirementID, employeeID string) (*model.ShortlistCandidate, error)
}

type shortlistRepository struct {
	db *gorm.DB
}

// NewShortlistRepository 创建一个新的 ShortlistRepository 实例。
func NewShortlistRepository(db *gorm.DB) ShortlistRepository {
	return &shortlistRepository{db: db}
}

func (r *shortlistRepository) Save(ctx context.Context, shortlist *model.Shortlist, candidates []model.ShortlistCandidate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shortlist).Error; err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}
		return tx.CreateInBatches(candidates, 100).Error
	})
}

func (r *shortlistRepository) FindLatest(ctx context.Context, requirementID string) (*model.Shortlist, []model.ShortlistCandidate, error) {
	var shortlist model.Shortlist
	err := r.db.WithContext(ctx).
		Where("requirement_id = ?", requirementID).
		Order("created_at desc").
		First(&shortlist).Error
	if err != nil {
		return nil, nil, err
	}

	var candidates []model.ShortlistCandidate
	err = r.db.WithContext(ctx).
		Where("shortlist_id = ?", shortlist.ShortlistID).
		Order("candidate_rank asc").
		Find(&candidates).Error
	if err != nil {
		return nil, nil, err
	}
	return &shortlist, candidates, nil
}

func (r *shortlistRepository) FindCandidate(ctx context.Context, requirementID, employeeID string) (*model.ShortlistCandidate, error) {
	var candidate model.ShortlistCandidate
	err := r.db.WithContext(ctx).
		Where("requirement_id = ? AND employee_id = ?", requirementID, employeeID).
		Order("id desc").
		First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}
