package repository

import (
	"context"

	"bench-match-go/internal/model"

	"gorm.io/gorm"
)

// DashboardRepository 提供仪表盘所需的聚合查询。
type DashboardRepository interface {
	BenchStatusCounts(ctx context.Context) ([]model.StatusCount, error)
	CountRequirements(ctx context.Context) (int64, error)
	// RecentShortlists 按创建时间倒序返回最近的 shortlist，附带需求信息与第一名候选人。
	RecentShortlists(ctx context.Context, limit int) ([]model.RecentShortlistRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建一个新的 DashboardRepository 实例。
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) BenchStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	var counts []model.StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.BenchStatus{}).
		Select("status, count(*) AS count").
		Group("status").
		Order("count desc, status asc").
		Scan(&counts).Error
	return counts, err
}

func (r *dashboardRepository) CountRequirements(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RequirementRecord{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) RecentShortlists(ctx context.Context, limit int) ([]model.RecentShortlistRow, error) {
	var rows []model.RecentShortlistRow
	q := r.db.WithContext(ctx).
		Table("shortlists AS s").
		Select("s.shortlist_id, s.requirement_id, s.candidate_count, s.created_at, " +
			"r.role_title, r.client_name, " +
			"c.employee_id AS top_employee_id, c.overall_fit AS top_overall_fit, c.breakdown AS top_breakdown").
		Joins("LEFT JOIN requirements AS r ON r.requirement_id = s.requirement_id").
		Joins("LEFT JOIN shortlist_candidates AS c ON c.shortlist_id = s.shortlist_id AND c.candidate_rank = 1").
		Order("s.created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&rows).Error
	return rows, err
}
