package service

import (
	"context"

	"bench-match-go/internal/model"
	"bench-match-go/pkg/log"
)

// SearchRequest 对应 POST /api/v1/search 的请求体。
// RequirementID 非空时使用已保存的需求，否则使用内联的 Requirement。
type SearchRequest struct {
	RequirementID string             `json:"requirement_id"`
	Requirement   *model.Requirement `json:"requirement"`
	TopN          int                `json:"top_n"`
	AllowPartial  bool               `json:"allow_partial"`
}

// SearchResponse 是一次搜索的返回结果。
type SearchResponse struct {
	RequirementID string              `json:"requirement_id,omitempty"`
	ShortlistID   string              `json:"shortlist_id,omitempty"`
	Candidates    []model.MatchResult `json:"candidates"`
	Stats         model.MatchStats    `json:"stats"`
}

// SearchService 编排需求解析、匹配与 shortlist 保存。
type SearchService interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

type searchService struct {
	requirements RequirementService
	matcher      MatchService
	shortlists   ShortlistService
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(requirements RequirementService, matcher MatchService, shortlists ShortlistService) SearchService {
	return &searchService{requirements: requirements, matcher: matcher, shortlists: shortlists}
}

// Search 执行匹配。需求与 shortlist 的保存失败不会丢弃已经计算出的结果。
func (s *searchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	requirement, err := s.resolveRequirement(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome, err := s.matcher.Match(ctx, requirement, MatchOptions{TopN: req.TopN, AllowPartial: req.AllowPartial})
	if err != nil {
		return nil, err
	}

	resp := &SearchResponse{
		RequirementID: requirement.RequirementID,
		Candidates:    outcome.Candidates,
		Stats:         outcome.Stats,
	}
	if requirement.RequirementID != "" && s.shortlists != nil {
		id, err := s.shortlists.Record(ctx, requirement.RequirementID, outcome)
		if err != nil {
			log.Warnf("[SearchService] shortlist 保存失败, 仍返回匹配结果: %v", err)
		} else {
			resp.ShortlistID = id
		}
	}
	return resp, nil
}

func (s *searchService) resolveRequirement(ctx context.Context, req SearchRequest) (model.Requirement, error) {
	if req.RequirementID != "" {
		stored, err := s.requirements.Get(ctx, req.RequirementID)
		if err != nil {
			return model.Requirement{}, err
		}
		return stored.Requirement, nil
	}
	if req.Requirement == nil {
		return model.Requirement{}, ErrInvalidRequirement
	}

	inline := *req.Requirement
	if err := ValidateRequirement(inline); err != nil {
		return model.Requirement{}, err
	}
	created, err := s.requirements.Create(ctx, inline)
	if err != nil {
		log.Warnf("[SearchService] 内联需求保存失败, 不关联 shortlist: %v", err)
		inline.RequirementID = ""
		return inline, nil
	}
	return created.Requirement, nil
}
