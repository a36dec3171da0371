package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"
	"bench-match-go/internal/repository"
	"bench-match-go/pkg/embedding"
	"bench-match-go/pkg/llm"
	"bench-match-go/pkg/log"
	"bench-match-go/pkg/metrics"
)

// ErrInvalidRequirement 表示需求缺少可检索的内容或参数越界。
var ErrInvalidRequirement = errors.New("invalid requirement")

// MatchOptions 是单次匹配的调用参数。
type MatchOptions struct {
	TopN         int
	AllowPartial bool
}

// MatchService 接口定义了匹配引擎的入口。
type MatchService interface {
	Match(ctx context.Context, req model.Requirement, opts MatchOptions) (*model.MatchOutcome, error)
}

type matchService struct {
	retriever *Retriever
	filter    *EligibilityFilter
	booster   Booster
	scorer    Scorer
	rationale *RationaleGenerator
	cfg       config.MatchingConfig
	metrics   *metrics.Metrics
}

// NewMatchService 创建一个新的 MatchService 实例，所有外部依赖由调用方注入并管理生命周期。
func NewMatchService(
	embedder embedding.Client,
	index VectorSearcher,
	employees repository.EmployeeRepository,
	completion llm.Client,
	matchingCfg config.MatchingConfig,
	llmTimeout time.Duration,
	m *metrics.Metrics,
) MatchService {
	return &matchService{
		retriever: NewRetriever(embedder, index, matchingCfg),
		filter:    NewEligibilityFilter(employees),
		booster:   NewBooster(matchingCfg.PrimarySkillScope),
		scorer:    NewScorer(matchingCfg.EligibleStatus),
		rationale: NewRationaleGenerator(completion, llmTimeout, matchingCfg.RationaleWorkers, m),
		cfg:       matchingCfg,
		metrics:   m,
	}
}

// ValidateRequirement 检查需求至少包含一项可检索内容，且年限非负。
func ValidateRequirement(req model.Requirement) error {
	if req.MinExperience < 0 {
		return fmt.Errorf("%w: min_experience must not be negative", ErrInvalidRequirement)
	}
	if strings.TrimSpace(BuildQueryText(req)) == "" {
		return fmt.Errorf("%w: role_title, summary or required_skills is required", ErrInvalidRequirement)
	}
	return nil
}

// NormalizeRequirement 去除技能与证书条目的首尾空白并丢弃空条目。
// 空条目不是技能，不计入 skill_match_pct 与 cert_match_pct 的分母。
func NormalizeRequirement(req model.Requirement) model.Requirement {
	req.RoleTitle = strings.TrimSpace(req.RoleTitle)
	req.RequiredSkills = trimNonEmpty(req.RequiredSkills)
	req.RequiredCertifications = trimNonEmpty(req.RequiredCertifications)
	return req
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *matchService) resolveTopN(topN int) int {
	if topN <= 0 {
		topN = s.cfg.DefaultTopN
	}
	if s.cfg.MaxTopN > 0 && topN > s.cfg.MaxTopN {
		topN = s.cfg.MaxTopN
	}
	return topN
}

// Match 依次执行检索、过滤、加权、截取、评分与理由生成。
func (s *matchService) Match(ctx context.Context, req model.Requirement, opts MatchOptions) (*model.MatchOutcome, error) {
	start := time.Now()
	req = NormalizeRequirement(req)
	if err := ValidateRequirement(req); err != nil {
		return nil, err
	}
	topN := s.resolveTopN(opts.TopN)
	log.Infof("[MatchService] 开始匹配, role: '%s', topN: %d, allowPartial: %t", req.RoleTitle, topN, opts.AllowPartial)

	retrieved, err := s.retriever.Retrieve(ctx, req, topN)
	if err != nil {
		s.metrics.ObserveMatch("retrieval_error", time.Since(start))
		return nil, err
	}

	eligible := s.filter.Filter(ctx, retrieved.Hits, EligibilityPolicy{
		EligibleStatus: s.cfg.EligibleStatus,
		PartialStatus:  s.cfg.PartialStatus,
		AllowPartial:   opts.AllowPartial,
	})
	s.metrics.AddDropped(DropMissing, eligible.DroppedMissing)
	s.metrics.AddDropped(DropNotEligible, eligible.DroppedNotEligible)

	s.booster.Boost(eligible.Candidates, req, retrieved.Query)
	finalists := SelectTop(eligible.Candidates, topN)

	results := make([]model.MatchResult, 0, len(finalists))
	for i, c := range finalists {
		r := s.scorer.Score(c, req)
		r.Rank = i + 1
		results = append(results, r)
	}
	s.rationale.Generate(ctx, req, results)

	outcome := &model.MatchOutcome{
		Candidates: results,
		Stats: model.MatchStats{
			Query:              retrieved.Query,
			RetrievalK:         retrieved.K,
			Retrieved:          len(retrieved.Hits),
			Eligible:           len(eligible.Candidates),
			DroppedMissing:     eligible.DroppedMissing,
			DroppedNotEligible: eligible.DroppedNotEligible,
			Returned:           len(results),
		},
	}
	s.metrics.AddReturned(len(results))
	s.metrics.ObserveMatch("ok", time.Since(start))
	log.Infof("[MatchService] 匹配完成, 检索 %d, 可用 %d, 返回 %d, 耗时 %s",
		outcome.Stats.Retrieved, outcome.Stats.Eligible, outcome.Stats.Returned, time.Since(start))
	return outcome, nil
}
