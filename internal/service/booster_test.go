package service

import (
	"testing"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id, role, primary string, distance float64, skills ...string) model.Candidate {
	rec := employee(id, role, primary, 5, "inactive", skills...)
	return model.Candidate{
		EmployeeID:   id,
		Role:         role,
		PrimarySkill: primary,
		BenchStatus:  "inactive",
		Distance:     distance,
		Record:       rec,
	}
}

func rules(c model.Candidate) []string {
	out := []string{}
	for _, s := range c.Signals {
		out = append(out, s.Rule)
	}
	return out
}

func TestBoostDataEngineerScenario(t *testing.T) {
	req := dataEngineerRequirement()
	cands := []model.Candidate{candidate("E1", "Data Engineer", "Spark", 0.2)}

	NewBooster(config.PrimarySkillScopeRequiredSkills).Boost(cands, req, BuildQueryText(req))

	c := cands[0]
	assert.InDelta(t, 0.8, c.EmbeddingScore, 1e-9)
	assert.InDelta(t, 3.6, c.BoostFactor, 1e-9)
	assert.InDelta(t, 2.88, c.FinalScore, 1e-9)
	assert.Equal(t, []string{RuleExactRole, RulePrimarySkill}, rules(c))
}

func TestRoleBoostsAreMutuallyExclusive(t *testing.T) {
	req := model.Requirement{RoleTitle: "Data Engineer"}
	cands := []model.Candidate{
		candidate("E1", "data engineer", "", 0.5),
		candidate("E2", "Senior Data Engineer", "", 0.5),
		candidate("E3", "Big Data Architect", "", 0.5),
		candidate("E4", "QA Analyst", "", 0.5),
	}
	NewBooster("").Boost(cands, req, BuildQueryText(req))

	assert.Equal(t, []string{RuleExactRole}, rules(cands[0]))
	assert.InDelta(t, 2.0, cands[0].BoostFactor, 1e-9)
	assert.Equal(t, []string{RuleRoleKeyword}, rules(cands[1]))
	assert.InDelta(t, 1.5, cands[1].BoostFactor, 1e-9)
	assert.Equal(t, []string{RuleRoleKeyword}, rules(cands[2]))
	assert.Empty(t, rules(cands[3]))
	assert.InDelta(t, 1.0, cands[3].BoostFactor, 1e-9)

	for _, c := range cands {
		assert.False(t, c.BoostFactor > 2.0+1e-9, "role rules must not stack for %s", c.EmployeeID)
	}
}

func TestShortRoleTokensAreIgnored(t *testing.T) {
	req := model.Requirement{RoleTitle: "QA of UI"}
	cands := []model.Candidate{candidate("E1", "Quality Engineer", "", 0.5)}
	NewBooster("").Boost(cands, req, "")
	assert.Empty(t, rules(cands[0]))
}

func TestPrimarySkillScope(t *testing.T) {
	req := model.Requirement{RoleTitle: "Backend Developer", Summary: "Java services", RequiredSkills: []string{"Spring Boot"}}
	query := BuildQueryText(req)

	byList := []model.Candidate{candidate("E1", "Tester", "Java", 0.5)}
	NewBooster(config.PrimarySkillScopeRequiredSkills).Boost(byList, req, query)
	assert.NotContains(t, rules(byList[0]), RulePrimarySkill)

	byQuery := []model.Candidate{candidate("E1", "Tester", "Java", 0.5)}
	NewBooster(config.PrimarySkillScopeQueryText).Boost(byQuery, req, query)
	assert.Contains(t, rules(byQuery[0]), RulePrimarySkill)

	spring := []model.Candidate{candidate("E2", "Tester", "spring", 0.5)}
	NewBooster(config.PrimarySkillScopeRequiredSkills).Boost(spring, req, query)
	assert.Contains(t, rules(spring[0]), RulePrimarySkill)
}

func TestSkillBreadthBoostIsCapped(t *testing.T) {
	req := model.Requirement{RoleTitle: "Nothing", RequiredSkills: []string{"aws"}}

	two := []model.Candidate{candidate("E1", "Ops", "", 0.0, "AWS Lambda", "AWS Glue", "Docker")}
	NewBooster("").Boost(two, req, "")
	assert.InDelta(t, 1.6, two[0].BoostFactor, 1e-9)

	many := []model.Candidate{candidate("E2", "Ops", "", 0.0, "AWS Lambda", "AWS Glue", "AWS S3", "AWS EKS")}
	NewBooster("").Boost(many, req, "")
	assert.InDelta(t, 2.0, many[0].BoostFactor, 1e-9)
}

func TestFinalScoreMonotoneInBoost(t *testing.T) {
	req := model.Requirement{RoleTitle: "Data Engineer", RequiredSkills: []string{"Spark"}}
	cands := []model.Candidate{
		candidate("E1", "Painter", "", 0.3),
		candidate("E2", "Senior Data Engineer", "", 0.3),
		candidate("E3", "Data Engineer", "", 0.3),
		candidate("E4", "Data Engineer", "Spark", 0.3, "Spark"),
	}
	NewBooster("").Boost(cands, req, "")
	for i := 1; i < len(cands); i++ {
		require.GreaterOrEqual(t, cands[i].BoostFactor, cands[i-1].BoostFactor)
		assert.GreaterOrEqual(t, cands[i].FinalScore, cands[i-1].FinalScore)
	}
}

func TestSelectTop(t *testing.T) {
	cands := []model.Candidate{
		{EmployeeID: "A", FinalScore: 0.5},
		{EmployeeID: "B", FinalScore: 0.9},
		{EmployeeID: "C", FinalScore: 0.5},
		{EmployeeID: "D", FinalScore: 1.2},
	}

	top := SelectTop(cands, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "D", top[0].EmployeeID)
	assert.Equal(t, "B", top[1].EmployeeID)
	assert.Equal(t, "A", top[2].EmployeeID)

	all := SelectTop(cands, 10)
	require.Len(t, all, 4)
	assert.Equal(t, "C", all[3].EmployeeID)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].FinalScore, all[i].FinalScore)
	}

	assert.Empty(t, SelectTop(nil, 5))
	assert.Equal(t, "A", cands[0].EmployeeID, "input must not be reordered")
}
