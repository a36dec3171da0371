package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bench-match-go/internal/model"
	"bench-match-go/internal/repository"
	"bench-match-go/pkg/log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrShortlistNotFound 表示需求尚无 shortlist 或候选人不在其中。
var ErrShortlistNotFound = errors.New("shortlist not found")

// ShortlistArchiver 将 shortlist 快照归档到对象存储。
type ShortlistArchiver interface {
	Archive(ctx context.Context, view *model.ShortlistView) error
}

// ShortlistService 接口定义了 shortlist 的持久化与查询。
type ShortlistService interface {
	// Record 保存一次匹配的结果并返回 shortlist_id。缓存与归档失败只记录日志。
	Record(ctx context.Context, requirementID string, outcome *model.MatchOutcome) (string, error)
	Latest(ctx context.Context, requirementID string) (*model.ShortlistView, error)
	Breakdown(ctx context.Context, requirementID, employeeID string) (*model.MatchResult, error)
}

type shortlistService struct {
	repo     repository.ShortlistRepository
	cache    repository.ShortlistCache
	archiver ShortlistArchiver
}

// NewShortlistService 创建一个新的 ShortlistService 实例。cache 与 archiver 可以为 nil。
func NewShortlistService(repo repository.ShortlistRepository, cache repository.ShortlistCache, archiver ShortlistArchiver) ShortlistService {
	return &shortlistService{repo: repo, cache: cache, archiver: archiver}
}

func (s *shortlistService) Record(ctx context.Context, requirementID string, outcome *model.MatchOutcome) (string, error) {
	stats, err := json.Marshal(outcome.Stats)
	if err != nil {
		return "", err
	}
	shortlist := &model.Shortlist{
		ShortlistID:    uuid.NewString(),
		RequirementID:  requirementID,
		CandidateCount: len(outcome.Candidates),
		Stats:          stats,
		CreatedAt:      time.Now(),
	}

	rows := make([]model.ShortlistCandidate, 0, len(outcome.Candidates))
	for _, c := range outcome.Candidates {
		breakdown, err := json.Marshal(c)
		if err != nil {
			return "", err
		}
		rows = append(rows, model.ShortlistCandidate{
			ShortlistID:     shortlist.ShortlistID,
			RequirementID:   requirementID,
			EmployeeID:      c.EmployeeID,
			Rank:            c.Rank,
			OverallFit:      c.Scores.OverallFit,
			FinalScore:      c.FinalScore,
			RationaleSource: string(c.Rationale.Source),
			Breakdown:       breakdown,
		})
	}

	if err := s.repo.Save(ctx, shortlist, rows); err != nil {
		log.Errorf("[ShortlistService] 保存 shortlist 失败, RequirementID: %s, Error: %v", requirementID, err)
		return "", err
	}
	log.Infof("[ShortlistService] shortlist 已保存, ShortlistID: %s, 候选人: %d", shortlist.ShortlistID, len(rows))

	stat := outcome.Stats
	view := &model.ShortlistView{
		ShortlistID:    shortlist.ShortlistID,
		RequirementID:  requirementID,
		CreatedAt:      model.LocalTime(shortlist.CreatedAt),
		CandidateCount: shortlist.CandidateCount,
		Stats:          &stat,
		Candidates:     outcome.Candidates,
	}
	s.cacheView(ctx, view)
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, view); err != nil {
			log.Warnf("[ShortlistService] 归档 shortlist 失败, ShortlistID: %s, Error: %v", view.ShortlistID, err)
		}
	}
	return shortlist.ShortlistID, nil
}

func (s *shortlistService) cacheView(ctx context.Context, view *model.ShortlistView) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, view); err != nil {
		log.Warnf("[ShortlistService] 写入 shortlist 缓存失败, RequirementID: %s, Error: %v", view.RequirementID, err)
		// 删除旧的缓存，避免 Latest 返回上一次的 shortlist
		if err := s.cache.Delete(ctx, view.RequirementID); err != nil {
			log.Warnf("[ShortlistService] 删除过期 shortlist 缓存失败, RequirementID: %s, Error: %v", view.RequirementID, err)
		}
	}
}

// Latest 先查 Redis 缓存，未命中再查数据库并回填缓存。
func (s *shortlistService) Latest(ctx context.Context, requirementID string) (*model.ShortlistView, error) {
	if s.cache != nil {
		view, err := s.cache.Get(ctx, requirementID)
		if err != nil {
			log.Warnf("[ShortlistService] 读取 shortlist 缓存失败, 回退数据库: %v", err)
		} else if view != nil {
			return view, nil
		}
	}

	shortlist, rows, err := s.repo.FindLatest(ctx, requirementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShortlistNotFound
	}
	if err != nil {
		return nil, err
	}

	view := &model.ShortlistView{
		ShortlistID:    shortlist.ShortlistID,
		RequirementID:  shortlist.RequirementID,
		CreatedAt:      model.LocalTime(shortlist.CreatedAt),
		CandidateCount: shortlist.CandidateCount,
		Candidates:     make([]model.MatchResult, 0, len(rows)),
	}
	if len(shortlist.Stats) > 0 {
		var stats model.MatchStats
		if err := json.Unmarshal(shortlist.Stats, &stats); err == nil {
			view.Stats = &stats
		}
	}
	for _, row := range rows {
		var r model.MatchResult
		if err := json.Unmarshal(row.Breakdown, &r); err != nil {
			log.Warnf("[ShortlistService] 解析候选人明细失败, EmployeeID: %s, Error: %v", row.EmployeeID, err)
			continue
		}
		view.Candidates = append(view.Candidates, r)
	}
	s.cacheView(ctx, view)
	return view, nil
}

func (s *shortlistService) Breakdown(ctx context.Context, requirementID, employeeID string) (*model.MatchResult, error) {
	row, err := s.repo.FindCandidate(ctx, requirementID, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShortlistNotFound
	}
	if err != nil {
		return nil, err
	}
	var r model.MatchResult
	if err := json.Unmarshal(row.Breakdown, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
