// Package service 实现匹配引擎各阶段以及需求、shortlist 相关的业务逻辑。
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"
	"bench-match-go/pkg/embedding"
	"bench-match-go/pkg/log"
)

// ErrRetrieval 表示向量化查询或向量检索失败，调用方不会得到部分结果。
var ErrRetrieval = errors.New("retrieval failed")

// VectorSearcher 是检索阶段依赖的近邻查询接口。
type VectorSearcher interface {
	Query(ctx context.Context, vector []float32, k int) ([]model.VectorHit, error)
}

// RetrievalResult 是检索阶段的输出，Hits 按距离升序排列。
type RetrievalResult struct {
	Query string
	K     int
	Hits  []model.VectorHit
}

// Retriever 将需求转换为查询向量并从索引中取回放大的候选池。
type Retriever struct {
	embedder embedding.Client
	index    VectorSearcher
	cfg      config.MatchingConfig
}

// NewRetriever 创建一个新的 Retriever 实例。
func NewRetriever(embedder embedding.Client, index VectorSearcher, cfg config.MatchingConfig) *Retriever {
	return &Retriever{embedder: embedder, index: index, cfg: cfg}
}

// BuildQueryText 依次拼接 role_title、summary 与必需技能，并规整空白。
func BuildQueryText(req model.Requirement) string {
	parts := make([]string, 0, len(req.RequiredSkills)+2)
	parts = append(parts, req.RoleTitle, req.Summary)
	parts = append(parts, req.RequiredSkills...)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// NormalizeShortQuery 为只有一两个词的查询补充上下文词。
func NormalizeShortQuery(q string) string {
	switch len(strings.Fields(q)) {
	case 1:
		return q + " developer engineer professional"
	case 2:
		return q + " professional development experience"
	default:
		return q
	}
}

// RetrievalK 返回 max(topN × multiplier, floor)。
func RetrievalK(topN int, cfg config.MatchingConfig) int {
	k := topN * cfg.RetrievalMultiplier
	if k < cfg.RetrievalFloor {
		k = cfg.RetrievalFloor
	}
	return k
}

// Retrieve 执行检索。任何向量化或索引错误都包装为 ErrRetrieval。
func (r *Retriever) Retrieve(ctx context.Context, req model.Requirement, topN int) (*RetrievalResult, error) {
	query := BuildQueryText(req)
	embedText := query
	if r.cfg.NormalizeShortQuery {
		embedText = NormalizeShortQuery(query)
		if embedText != query {
			log.Infof("[Retriever] 规范化查询: '%s' -> '%s'", query, embedText)
		}
	}

	vector, err := r.embedder.CreateEmbedding(ctx, embedText)
	if err != nil {
		log.Errorf("[Retriever] 向量化查询失败: %v", err)
		return nil, fmt.Errorf("%w: embed query: %w", ErrRetrieval, err)
	}

	k := RetrievalK(topN, r.cfg)
	hits, err := r.index.Query(ctx, vector, k)
	if err != nil {
		log.Errorf("[Retriever] 向量检索失败, k=%d: %v", k, err)
		return nil, fmt.Errorf("%w: query index: %w", ErrRetrieval, err)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	log.Infof("[Retriever] 检索完成, k=%d, 命中 %d 条", k, len(hits))
	return &RetrievalResult{Query: query, K: k, Hits: hits}, nil
}
