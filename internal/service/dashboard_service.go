package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"bench-match-go/internal/model"
	"bench-match-go/internal/repository"
	"bench-match-go/pkg/log"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardRecentShortlists = 10
	dashboardDemandWindow     = 100
	dashboardTopSkills        = 5
)

// DashboardService 接口定义了仪表盘汇总查询。
type DashboardService interface {
	Summary(ctx context.Context) (*model.DashboardView, error)
}

type dashboardService struct {
	repo           repository.DashboardRepository
	requirements   repository.RequirementRepository
	eligibleStatus string
}

// NewDashboardService 创建一个新的 DashboardService 实例。eligibleStatus 用于统计可用的 bench 人数。
func NewDashboardService(repo repository.DashboardRepository, requirements repository.RequirementRepository, eligibleStatus string) DashboardService {
	return &dashboardService{repo: repo, requirements: requirements, eligibleStatus: eligibleStatus}
}

// Summary 并发执行各项聚合查询，任一查询失败即返回错误。
func (s *dashboardService) Summary(ctx context.Context) (*model.DashboardView, error) {
	var (
		statuses     []model.StatusCount
		reqCount     int64
		requirements []model.RequirementRecord
		recent       []model.RecentShortlistRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		statuses, err = s.repo.BenchStatusCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		reqCount, err = s.repo.CountRequirements(gctx)
		return err
	})
	g.Go(func() (err error) {
		requirements, err = s.requirements.List(gctx, dashboardDemandWindow)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repo.RecentShortlists(gctx, dashboardRecentShortlists)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Errorf("[DashboardService] 汇总查询失败: %v", err)
		return nil, err
	}

	view := &model.DashboardView{
		BenchByStatus:    statuses,
		RequirementCount: reqCount,
		RecentShortlists: make([]model.RecentShortlist, 0, len(recent)),
	}
	if view.BenchByStatus == nil {
		view.BenchByStatus = []model.StatusCount{}
	}
	for _, sc := range statuses {
		if strings.EqualFold(strings.TrimSpace(sc.Status), s.eligibleStatus) {
			view.BenchTotal += sc.Count
		}
	}

	demand := newSkillTally()
	for _, r := range requirements {
		for _, skill := range r.RequiredSkills {
			demand.add(skill)
		}
	}
	view.TopDemandSkills = demand.top(dashboardTopSkills)

	gaps := newSkillTally()
	for _, row := range recent {
		view.RecentShortlists = append(view.RecentShortlists, model.RecentShortlist{
			ShortlistID:    row.ShortlistID,
			RequirementID:  row.RequirementID,
			RoleTitle:      deref(row.RoleTitle),
			ClientName:     deref(row.ClientName),
			CandidateCount: row.CandidateCount,
			TopEmployeeID:  deref(row.TopEmployeeID),
			TopOverallFit:  derefInt(row.TopOverallFit),
			CreatedAt:      model.LocalTime(row.CreatedAt),
		})
		if row.TopBreakdown == nil {
			continue
		}
		var top model.MatchResult
		if err := json.Unmarshal([]byte(*row.TopBreakdown), &top); err != nil {
			log.Warnf("[DashboardService] 解析候选人明细失败, ShortlistID: %s, Error: %v", row.ShortlistID, err)
			continue
		}
		// 第一名候选人仍缺少的技能即为人才缺口
		for _, ev := range top.SkillEvidence {
			if ev.Confidence == 0 {
				gaps.add(ev.RequiredSkill)
			}
		}
	}
	view.SkillGaps = gaps.top(dashboardTopSkills)
	return view, nil
}

// skillTally 忽略大小写计数，展示第一次出现时的写法。
type skillTally struct {
	display map[string]string
	counts  map[string]int
}

func newSkillTally() *skillTally {
	return &skillTally{display: map[string]string{}, counts: map[string]int{}}
}

func (t *skillTally) add(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	key := strings.ToLower(skill)
	if _, ok := t.display[key]; !ok {
		t.display[key] = skill
	}
	t.counts[key]++
}

func (t *skillTally) top(n int) []model.SkillCount {
	out := make([]model.SkillCount, 0, len(t.counts))
	for key, c := range t.counts {
		out = append(out, model.SkillCount{Skill: t.display[key], Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.ToLower(out[i].Skill) < strings.ToLower(out[j].Skill)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
