// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"

	"bench-match-go/internal/model"

	"gorm.io/gorm"
)

// EmployeeRepository 定义了对上游员工源表的只读操作。
type EmployeeRepository interface {
	// LoadSourceRecords 读取员工、技能、证书、项目四张表；ids 为空时读取全部。
	LoadSourceRecords(ctx context.Context, ids []string) (*model.SourceRecords, error)
	// LoadRecords 一次性批量读取给定员工的全部数据（含 bench 状态），按 employee_id 关联。
	LoadRecords(ctx context.Context, ids []string) (map[string]*model.EmployeeRecord, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository 创建一个新的 EmployeeRepository 实例。
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// scoped 在 ids 非空时追加 employee_id IN 条件。
func (r *employeeRepository) scoped(ctx context.Context, ids []string) *gorm.DB {
	q := r.db.WithContext(ctx)
	if len(ids) > 0 {
		q = q.Where("employee_id IN ?", ids)
	}
	return q
}

func (r *employeeRepository) LoadSourceRecords(ctx context.Context, ids []string) (*model.SourceRecords, error) {
	var src model.SourceRecords
	if err := r.scoped(ctx, ids).Order("employee_id asc").Find(&src.Profiles).Error; err != nil {
		return nil, err
	}
	if err := r.scoped(ctx, ids).Order("id asc").Find(&src.Skills).Error; err != nil {
		return nil, err
	}
	if err := r.scoped(ctx, ids).Order("id asc").Find(&src.Certifications).Error; err != nil {
		return nil, err
	}
	if err := r.scoped(ctx, ids).Order("id asc").Find(&src.Projects).Error; err != nil {
		return nil, err
	}
	return &src, nil
}

func (r *employeeRepository) LoadRecords(ctx context.Context, ids []string) (map[string]*model.EmployeeRecord, error) {
	if len(ids) == 0 {
		return map[string]*model.EmployeeRecord{}, nil
	}
	src, err := r.LoadSourceRecords(ctx, ids)
	if err != nil {
		return nil, err
	}
	var benches []model.BenchStatus
	if err := r.scoped(ctx, ids).Find(&benches).Error; err != nil {
		return nil, err
	}
	return model.JoinEmployeeRecords(*src, benches), nil
}
