package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bench-match-go/internal/model"
	"bench-match-go/pkg/llm"
	"bench-match-go/pkg/log"
	"bench-match-go/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const defaultRationaleWorkers = 4

// RationaleGenerator 为每名入围候选人生成简短的推荐理由。
// 补全失败、超时或返回空文本时使用确定性模板，从不返回错误。
type RationaleGenerator struct {
	client  llm.Client
	timeout time.Duration
	workers int
	metrics *metrics.Metrics
}

// NewRationaleGenerator 创建一个 RationaleGenerator。client 为 nil 时总是使用模板。
func NewRationaleGenerator(client llm.Client, timeout time.Duration, workers int, m *metrics.Metrics) *RationaleGenerator {
	if workers <= 0 {
		workers = defaultRationaleWorkers
	}
	return &RationaleGenerator{client: client, timeout: timeout, workers: workers, metrics: m}
}

// Generate 并发填写 results[i].Rationale，每个任务只写自己的槽位，顺序不变。
func (g *RationaleGenerator) Generate(ctx context.Context, req model.Requirement, results []model.MatchResult) {
	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i := range results {
		eg.Go(func() error {
			results[i].Rationale = g.generateOne(ctx, req, results[i])
			g.metrics.IncRationale(string(results[i].Rationale.Source))
			return nil
		})
	}
	_ = eg.Wait()
}

func (g *RationaleGenerator) generateOne(ctx context.Context, req model.Requirement, r model.MatchResult) model.Rationale {
	if g.client == nil {
		return model.Rationale{Text: TemplatedRationale(r), Source: model.RationaleTemplated}
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Complete(callCtx, BuildRationalePrompt(req, r))
	if err != nil {
		log.Warnf("[RationaleGenerator] 补全失败, 使用模板, EmployeeID: %s, Error: %v", r.EmployeeID, err)
		return model.Rationale{Text: TemplatedRationale(r), Source: model.RationaleTemplated}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Warnf("[RationaleGenerator] 补全返回空文本, 使用模板, EmployeeID: %s", r.EmployeeID)
		return model.Rationale{Text: TemplatedRationale(r), Source: model.RationaleTemplated}
	}
	return model.Rationale{Text: text, Source: model.RationaleGenerated}
}

// BuildRationalePrompt 构造包含需求、子分数与技能/证书摘要的提示词。
func BuildRationalePrompt(req model.Requirement, r model.MatchResult) string {
	var b strings.Builder
	b.WriteString("You are a staffing analyst. In exactly two sentences, explain how well this bench employee fits the client requirement. Be specific and factual.\n\n")

	b.WriteString("Requirement:\n")
	fmt.Fprintf(&b, "- Role: %s\n", req.RoleTitle)
	fmt.Fprintf(&b, "- Required skills: %s\n", strings.Join(req.RequiredSkills, ", "))
	fmt.Fprintf(&b, "- Required certifications: %s\n", strings.Join(req.RequiredCertifications, ", "))
	fmt.Fprintf(&b, "- Minimum experience: %s years\n", formatYears(req.MinExperience))
	if req.Summary != "" {
		fmt.Fprintf(&b, "- Summary: %s\n", req.Summary)
	}

	b.WriteString("\nCandidate:\n")
	fmt.Fprintf(&b, "- Role: %s, primary skill: %s, %s years of experience\n",
		r.Role, r.PrimarySkill, formatYears(r.Experience.CandidateYears))
	fmt.Fprintf(&b, "- Scores: overall %d%%, skills %.0f%%, experience %.0f%%, certifications %.0f%%, availability %.0f%%\n",
		r.Scores.OverallFit, r.Scores.SkillMatchPct, r.Scores.ExperienceMatchPct, r.Scores.CertMatchPct, r.Scores.AvailabilityPct)

	var matched, missing []string
	for _, ev := range r.SkillEvidence {
		if ev.Confidence > 0 {
			matched = append(matched, fmt.Sprintf("%s (via %s)", ev.RequiredSkill, ev.MatchedSkill))
		} else {
			missing = append(missing, ev.RequiredSkill)
		}
	}
	fmt.Fprintf(&b, "- Matched skills: %s\n", orNone(matched))
	fmt.Fprintf(&b, "- Missing skills: %s\n", orNone(missing))

	var certsMet, certsMissing []string
	for _, c := range r.Certifications.Required {
		if c.Met {
			certsMet = append(certsMet, c.Name)
		} else {
			certsMissing = append(certsMissing, c.Name)
		}
	}
	fmt.Fprintf(&b, "- Certifications met: %s; missing: %s; additional: %s\n",
		orNone(certsMet), orNone(certsMissing), orNone(r.Certifications.Additional))
	return b.String()
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// TemplatedRationale 是补全不可用时的确定性理由。
func TemplatedRationale(r model.MatchResult) string {
	who := r.Name
	if who == "" {
		who = r.EmployeeID
	}
	return fmt.Sprintf("%s has an overall fit of %d%%, matching %.0f%% of the required skills with %s years of experience.",
		who, r.Scores.OverallFit, r.Scores.SkillMatchPct, formatYears(r.Experience.CandidateYears))
}
