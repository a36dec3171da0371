package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"
)

// 加权规则的名称与系数。
const (
	RuleExactRole    = "exact_role"
	RuleRoleKeyword  = "role_keyword"
	RulePrimarySkill = "primary_skill"
	RuleSkillBreadth = "skill_breadth"

	exactRoleFactor    = 2.0
	roleKeywordFactor  = 1.5
	primarySkillFactor = 1.8
	breadthStep        = 0.3
	breadthCap         = 2.0
)

// Booster 在向量相似度之上按固定顺序叠加乘法加权。
type Booster struct {
	primarySkillScope string
}

// NewBooster 创建一个 Booster。scope 为空时比较必需技能列表。
func NewBooster(primarySkillScope string) Booster {
	if primarySkillScope == "" {
		primarySkillScope = config.PrimarySkillScopeRequiredSkills
	}
	return Booster{primarySkillScope: primarySkillScope}
}

// requirementTerms 是一次需求预处理后的小写比较项。
type requirementTerms struct {
	role       string
	roleTokens []string
	skills     []string
	query      string
}

func newRequirementTerms(req model.Requirement, queryText string) requirementTerms {
	t := requirementTerms{
		role:  strings.ToLower(strings.TrimSpace(req.RoleTitle)),
		query: strings.ToLower(queryText),
	}
	for _, tok := range strings.Fields(t.role) {
		if utf8.RuneCountInString(tok) > 2 {
			t.roleTokens = append(t.roleTokens, tok)
		}
	}
	t.skills = lowerNonEmpty(req.RequiredSkills)
	return t
}

func lowerNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Boost 为每名候选人计算 embedding_score、boost_factor 与 final_score，原地修改。
func (b Booster) Boost(candidates []model.Candidate, req model.Requirement, queryText string) {
	terms := newRequirementTerms(req, queryText)
	for i := range candidates {
		b.boostOne(&candidates[i], terms)
	}
}

func (b Booster) boostOne(c *model.Candidate, t requirementTerms) {
	c.EmbeddingScore = 1 - c.Distance
	c.BoostFactor = 1.0
	c.Signals = nil

	apply := func(rule string, factor float64, detail string) {
		c.BoostFactor *= factor
		c.Signals = append(c.Signals, model.BoostSignal{Rule: rule, Factor: factor, Detail: detail})
	}

	role := strings.ToLower(strings.TrimSpace(c.Role))
	if t.role != "" && role == t.role {
		apply(RuleExactRole, exactRoleFactor, fmt.Sprintf("role %q matches exactly", c.Role))
	} else if tok, ok := firstContained(role, t.roleTokens); ok {
		apply(RuleRoleKeyword, roleKeywordFactor, fmt.Sprintf("role %q contains %q", c.Role, tok))
	}

	primary := strings.ToLower(strings.TrimSpace(c.PrimarySkill))
	if primary != "" && b.primaryMatches(primary, t) {
		apply(RulePrimarySkill, primarySkillFactor, fmt.Sprintf("primary skill %q is required", c.PrimarySkill))
	}

	if count := countSkillOverlap(c.Record, t.skills); count > 0 {
		factor := 1 + breadthStep*float64(count)
		if factor > breadthCap {
			factor = breadthCap
		}
		apply(RuleSkillBreadth, factor, fmt.Sprintf("%d skills overlap the requirement", count))
	}

	c.FinalScore = c.EmbeddingScore * c.BoostFactor
}

func (b Booster) primaryMatches(primary string, t requirementTerms) bool {
	if b.primarySkillScope == config.PrimarySkillScopeQueryText {
		return strings.Contains(t.query, primary)
	}
	for _, s := range t.skills {
		if strings.Contains(s, primary) {
			return true
		}
	}
	return false
}

// firstContained 返回第一个作为 s 子串出现的 token。
func firstContained(s string, tokens []string) (string, bool) {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return tok, true
		}
	}
	return "", false
}

// countSkillOverlap 统计名称包含任一必需技能的员工技能条数。
func countSkillOverlap(rec *model.EmployeeRecord, required []string) int {
	if rec == nil || len(required) == 0 {
		return 0
	}
	count := 0
	for _, s := range rec.Skills {
		name := strings.ToLower(s.SkillName)
		if _, ok := firstContained(name, required); ok {
			count++
		}
	}
	return count
}

// SelectTop 按 final_score 降序稳定排序并截取前 topN 名，同分保持检索顺序。
func SelectTop(candidates []model.Candidate, topN int) []model.Candidate {
	sorted := make([]model.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})
	if topN < 0 {
		topN = 0
	}
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}
