package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bench-match-go/internal/model"
)

// 子分数权重与固定值。
const (
	skillWeight        = 0.60
	experienceWeight   = 0.20
	certWeight         = 0.10
	availabilityWeight = 0.10

	matchedConfidence      = 95
	defaultExperiencePct   = 80.0
	certBonusPerHeld       = 15.0
	certBonusCap           = 60.0
	fullAvailabilityPct    = 100.0
	partialAvailabilityPct = 60.0
)

// Scorer 为入围候选人计算可解释的加权匹配度。
type Scorer struct {
	eligibleStatus string
}

// NewScorer 创建一个 Scorer，eligibleStatus 决定 availability_pct 是否为满分。
func NewScorer(eligibleStatus string) Scorer {
	return Scorer{eligibleStatus: eligibleStatus}
}

// Score 计算子分数、证据、优势与差距。Rank 与 Rationale 由调用方填写。
func (s Scorer) Score(c model.Candidate, req model.Requirement) model.MatchResult {
	rec := c.Record
	if rec == nil {
		rec = &model.EmployeeRecord{}
	}
	var years float64
	if rec.Profile != nil {
		years = rec.Profile.ExperienceYears
	}

	skillPct, evidence := scoreSkills(rec.Skills, req.RequiredSkills)
	certPct, certs := scoreCertifications(rec.Certifications, req.RequiredCertifications)
	expPct := scoreExperience(years, req.MinExperience)
	availPct := partialAvailabilityPct
	if strings.EqualFold(strings.TrimSpace(c.BenchStatus), s.eligibleStatus) {
		availPct = fullAvailabilityPct
	}

	scores := model.SubScores{
		SkillMatchPct:      skillPct,
		ExperienceMatchPct: expPct,
		CertMatchPct:       certPct,
		AvailabilityPct:    availPct,
		OverallFit:         OverallFit(skillPct, expPct, certPct, availPct),
	}

	projects := make([]model.ProjectSummary, 0, len(rec.Projects))
	for _, p := range rec.Projects {
		projects = append(projects, model.ProjectSummary{ProjectName: p.ProjectName, Summary: p.ExperienceSummary})
	}

	result := model.MatchResult{
		EmployeeID:     c.EmployeeID,
		Name:           c.Name,
		Email:          c.Email,
		Role:           c.Role,
		PrimarySkill:   c.PrimarySkill,
		BenchStatus:    c.BenchStatus,
		EmbeddingScore: c.EmbeddingScore,
		BoostFactor:    c.BoostFactor,
		FinalScore:     c.FinalScore,
		Signals:        c.Signals,
		Scores:         scores,
		SkillEvidence:  evidence,
		Certifications: certs,
		Experience: model.ExperienceSummary{
			RequiredYears:  req.MinExperience,
			CandidateYears: years,
			Projects:       projects,
		},
	}
	result.Strengths, result.Gaps = strengthsAndGaps(result, req)
	return result
}

// OverallFit = floor(0.60×skill + 0.20×experience + 0.10×cert + 0.10×availability)。
// 加上极小量以抵消浮点误差，例如 89.99999999 应记为 90。
func OverallFit(skill, experience, cert, availability float64) int {
	v := skillWeight*skill + experienceWeight*experience + certWeight*cert + availabilityWeight*availability
	return int(math.Floor(v + 1e-9))
}

// bidirectionalMatch 忽略大小写，任一方包含另一方即视为匹配。
func bidirectionalMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func scoreSkills(held []model.SkillRecord, required []string) (float64, []model.SkillEvidence) {
	evidence := make([]model.SkillEvidence, 0, len(required))
	total, matched := 0, 0
	for _, r := range required {
		if strings.TrimSpace(r) == "" {
			continue
		}
		total++
		ev := model.SkillEvidence{RequiredSkill: r}
		for _, h := range held {
			if bidirectionalMatch(h.SkillName, r) {
				ev.MatchedSkill = h.SkillName
				ev.Confidence = matchedConfidence
				matched++
				break
			}
		}
		evidence = append(evidence, ev)
	}
	if total == 0 {
		return 0, evidence
	}
	return float64(matched) / float64(total) * 100, evidence
}

func scoreCertifications(held []model.CertificationRecord, required []string) (float64, model.CertificationBreakdown) {
	breakdown := model.CertificationBreakdown{
		Required:   []model.CertificationCheck{},
		Additional: []string{},
	}
	used := make([]bool, len(held))
	total, met := 0, 0
	for _, r := range required {
		if strings.TrimSpace(r) == "" {
			continue
		}
		total++
		check := model.CertificationCheck{Name: r}
		for i, h := range held {
			if bidirectionalMatch(h.CertificateName, r) {
				check.Met = true
				used[i] = true
			}
		}
		if check.Met {
			met++
		}
		breakdown.Required = append(breakdown.Required, check)
	}
	for i, h := range held {
		if !used[i] {
			breakdown.Additional = append(breakdown.Additional, h.CertificateName)
		}
	}

	if total == 0 {
		return math.Min(certBonusPerHeld*float64(len(held)), certBonusCap), breakdown
	}
	return float64(met) / float64(total) * 100, breakdown
}

func scoreExperience(years, required float64) float64 {
	if required <= 0 {
		return defaultExperiencePct
	}
	return math.Min(years/required*100, 100)
}

func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}

// strengthsAndGaps 由证据确定性地生成优势与差距列表。
func strengthsAndGaps(r model.MatchResult, req model.Requirement) ([]string, []string) {
	strengths := []string{}
	gaps := []string{}

	var matched, missing []string
	for _, ev := range r.SkillEvidence {
		if ev.Confidence > 0 {
			matched = append(matched, ev.RequiredSkill)
		} else {
			missing = append(missing, ev.RequiredSkill)
		}
	}
	if len(matched) > 0 {
		strengths = append(strengths, "Covers required skills: "+strings.Join(matched, ", "))
	}
	for _, m := range missing {
		gaps = append(gaps, "Missing required skill: "+m)
	}

	for _, sig := range r.Signals {
		if sig.Rule == RuleExactRole {
			strengths = append(strengths, fmt.Sprintf("Current role matches %s", req.RoleTitle))
		}
	}

	years := r.Experience.CandidateYears
	switch {
	case req.MinExperience > 0 && years >= req.MinExperience:
		strengths = append(strengths, fmt.Sprintf("%s years of experience meets the %s year minimum",
			formatYears(years), formatYears(req.MinExperience)))
	case req.MinExperience > 0:
		gaps = append(gaps, fmt.Sprintf("Short of the %s year experience minimum by %s years",
			formatYears(req.MinExperience), formatYears(math.Round((req.MinExperience-years)*10)/10)))
	case years > 0:
		strengths = append(strengths, fmt.Sprintf("%s years of experience", formatYears(years)))
	}

	for _, c := range r.Certifications.Required {
		if c.Met {
			strengths = append(strengths, "Holds required certification: "+c.Name)
		} else {
			gaps = append(gaps, "Missing required certification: "+c.Name)
		}
	}
	if len(r.Certifications.Required) == 0 && len(r.Certifications.Additional) > 0 {
		strengths = append(strengths, fmt.Sprintf("Holds %d additional certifications", len(r.Certifications.Additional)))
	}

	if r.Scores.AvailabilityPct < fullAvailabilityPct {
		gaps = append(gaps, fmt.Sprintf("Only partially available (bench status %s)", r.BenchStatus))
	}
	return strengths, gaps
}
