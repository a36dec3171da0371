package model

// RationaleSource 标明推荐理由的来源。
type RationaleSource string

const (
	// RationaleGenerated 表示理由由补全服务生成。
	RationaleGenerated RationaleSource = "generated"
	// RationaleTemplated 表示补全失败、超时或返回空文本，使用了确定性模板。
	RationaleTemplated RationaleSource = "templated"
)

// Rationale 是候选人的自然语言推荐理由。
type Rationale struct {
	Text   string          `json:"text"`
	Source RationaleSource `json:"source"`
}

// BoostSignal 记录一条生效的加权规则。
type BoostSignal struct {
	Rule   string  `json:"rule"`
	Factor float64 `json:"factor"`
	Detail string  `json:"detail"`
}

// Candidate 只存在于单次匹配过程中，不由引擎持久化。
type Candidate struct {
	EmployeeID     string
	Name           string
	Email          string
	Role           string
	PrimarySkill   string
	BenchStatus    string
	RetrievalRank  int
	Distance       float64
	EmbeddingScore float64
	BoostFactor    float64
	FinalScore     float64
	Signals        []BoostSignal
	Record         *EmployeeRecord
}

// SubScores 是四项 [0,100] 的子分数与加权后的整体匹配度。
type SubScores struct {
	SkillMatchPct      float64 `json:"skill_match_pct"`
	ExperienceMatchPct float64 `json:"experience_match_pct"`
	CertMatchPct       float64 `json:"cert_match_pct"`
	AvailabilityPct    float64 `json:"availability_pct"`
	OverallFit         int     `json:"overall_fit"`
}

// SkillEvidence 是单个必需技能的匹配证据。
type SkillEvidence struct {
	RequiredSkill string `json:"required_skill"`
	MatchedSkill  string `json:"matched_skill"`
	Confidence    int    `json:"confidence"`
}

// CertificationCheck 表示一个必需证书是否满足。
type CertificationCheck struct {
	Name string `json:"name"`
	Met  bool   `json:"met"`
}

// CertificationBreakdown 将证书拆分为必需项与额外持有项。
type CertificationBreakdown struct {
	Required   []CertificationCheck `json:"required"`
	Additional []string             `json:"additional"`
}

// ProjectSummary 是候选人的项目经历摘要。
type ProjectSummary struct {
	ProjectName string `json:"project_name"`
	Summary     string `json:"summary"`
}

// ExperienceSummary 对比需求年限与候选人年限。
type ExperienceSummary struct {
	RequiredYears  float64          `json:"required_years"`
	CandidateYears float64          `json:"candidate_years"`
	Projects       []ProjectSummary `json:"projects"`
}

// MatchResult 是对外返回的单个候选人结果。
type MatchResult struct {
	Rank           int                    `json:"rank"`
	EmployeeID     string                 `json:"employee_id"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Role           string                 `json:"role"`
	PrimarySkill   string                 `json:"primary_skill"`
	BenchStatus    string                 `json:"bench_status"`
	EmbeddingScore float64                `json:"embedding_score"`
	BoostFactor    float64                `json:"boost_factor"`
	FinalScore     float64                `json:"final_score"`
	Signals        []BoostSignal          `json:"signals"`
	Scores         SubScores              `json:"scores"`
	SkillEvidence  []SkillEvidence        `json:"skill_evidence"`
	Certifications CertificationBreakdown `json:"certifications"`
	Experience     ExperienceSummary      `json:"experience"`
	Strengths      []string               `json:"strengths"`
	Gaps           []string               `json:"gaps"`
	Rationale      Rationale              `json:"rationale"`
}

// MatchStats 记录一次匹配各阶段的数量，便于观测。
type MatchStats struct {
	Query              string `json:"query"`
	RetrievalK         int    `json:"retrieval_k"`
	Retrieved          int    `json:"retrieved"`
	Eligible           int    `json:"eligible"`
	DroppedMissing     int    `json:"dropped_missing"`
	DroppedNotEligible int    `json:"dropped_not_eligible"`
	Returned           int    `json:"returned"`
}

// MatchOutcome 是匹配引擎的完整输出。
type MatchOutcome struct {
	Candidates []MatchResult `json:"candidates"`
	Stats      MatchStats    `json:"stats"`
}
