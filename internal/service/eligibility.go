package service

import (
	"context"
	"strings"

	"bench-match-go/internal/model"
	"bench-match-go/internal/repository"
	"bench-match-go/pkg/log"
)

// 候选人被过滤的原因。
const (
	DropMissing     = "missing"
	DropNotEligible = "not_eligible"
)

// EligibilityPolicy 决定哪些 bench 状态可以进入后续阶段。
type EligibilityPolicy struct {
	EligibleStatus string
	PartialStatus  string
	AllowPartial   bool
}

// Admits 报告给定状态是否可用，比较忽略大小写与首尾空白。
func (p EligibilityPolicy) Admits(status string) bool {
	status = strings.TrimSpace(status)
	if strings.EqualFold(status, p.EligibleStatus) {
		return true
	}
	return p.AllowPartial && p.PartialStatus != "" && strings.EqualFold(status, p.PartialStatus)
}

// EligibilityResult 是过滤后的候选人以及各原因的丢弃数量。
type EligibilityResult struct {
	Candidates         []model.Candidate
	DroppedMissing     int
	DroppedNotEligible int
}

// EligibilityFilter 依据 bench 状态与员工档案过滤检索结果。
type EligibilityFilter struct {
	employees repository.EmployeeRepository
}

// NewEligibilityFilter 创建一个新的 EligibilityFilter 实例。
func NewEligibilityFilter(employees repository.EmployeeRepository) *EligibilityFilter {
	return &EligibilityFilter{employees: employees}
}

// Filter 保持检索顺序输出可用候选人。批量读取失败时所有候选人按 missing 丢弃，不返回错误。
func (f *EligibilityFilter) Filter(ctx context.Context, hits []model.VectorHit, policy EligibilityPolicy) EligibilityResult {
	var res EligibilityResult
	if len(hits) == 0 {
		return res
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.EmployeeID)
	}
	records, err := f.employees.LoadRecords(ctx, ids)
	if err != nil {
		log.Errorf("[EligibilityFilter] 批量读取员工数据失败, %d 名候选人按 missing 处理: %v", len(hits), err)
		res.DroppedMissing = len(hits)
		return res
	}

	for i, h := range hits {
		rec := records[h.EmployeeID]
		if rec == nil || rec.Bench == nil {
			res.DroppedMissing++
			continue
		}
		if !policy.Admits(rec.Bench.Status) {
			res.DroppedNotEligible++
			continue
		}
		if rec.Profile == nil {
			res.DroppedMissing++
			continue
		}
		res.Candidates = append(res.Candidates, model.Candidate{
			EmployeeID:    h.EmployeeID,
			Name:          rec.Profile.Name,
			Email:         rec.Profile.Email,
			Role:          rec.Profile.Role,
			PrimarySkill:  rec.Profile.PrimarySkill,
			BenchStatus:   rec.Bench.Status,
			RetrievalRank: i + 1,
			Distance:      h.Distance,
			Record:        rec,
		})
	}

	log.Infof("[EligibilityFilter] 可用 %d 名, 丢弃 missing=%d, not_eligible=%d",
		len(res.Candidates), res.DroppedMissing, res.DroppedNotEligible)
	return res
}
