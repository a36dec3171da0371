package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bench-match-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finalist(id string, overall int) model.MatchResult {
	return model.MatchResult{
		EmployeeID: id,
		Name:       "Employee " + id,
		Role:       "Data Engineer",
		Scores:     model.SubScores{SkillMatchPct: 100, ExperienceMatchPct: 100, AvailabilityPct: 100, OverallFit: overall},
		Experience: model.ExperienceSummary{RequiredYears: 5, CandidateYears: 7},
	}
}

func TestRationaleTimeoutFallsBackToTemplate(t *testing.T) {
	slow := &fakeLLM{complete: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	g := NewRationaleGenerator(slow, 20*time.Millisecond, 2, nil)

	results := []model.MatchResult{finalist("E1", 90)}
	g.Generate(context.Background(), dataEngineerRequirement(), results)

	r := results[0].Rationale
	assert.Equal(t, model.RationaleTemplated, r.Source)
	assert.NotEmpty(t, r.Text)
	assert.Contains(t, r.Text, "90")
	assert.Contains(t, r.Text, "100%")
	assert.Contains(t, r.Text, "7 years")
}

func TestRationaleGeneratedAndFallbacks(t *testing.T) {
	client := &fakeLLM{complete: func(_ context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Employee-E1"):
			return "  Strong fit for the Spark pipelines.  ", nil
		case strings.Contains(prompt, "Employee-E2"):
			return "   ", nil
		default:
			return "", errors.New("service unavailable")
		}
	}}
	results := []model.MatchResult{finalist("E1", 90), finalist("E2", 80), finalist("E3", 70)}
	for i := range results {
		results[i].PrimarySkill = "Employee-" + results[i].EmployeeID
	}

	NewRationaleGenerator(client, time.Second, 4, nil).Generate(context.Background(), dataEngineerRequirement(), results)

	assert.Equal(t, model.Rationale{Text: "Strong fit for the Spark pipelines.", Source: model.RationaleGenerated}, results[0].Rationale)
	assert.Equal(t, model.RationaleTemplated, results[1].Rationale.Source)
	assert.Contains(t, results[1].Rationale.Text, "80")
	assert.Equal(t, model.RationaleTemplated, results[2].Rationale.Source)
	assert.Contains(t, results[2].Rationale.Text, "70")
}

func TestRationaleSlowCallDoesNotBlockOthers(t *testing.T) {
	var calls int32
	client := &fakeLLM{complete: func(ctx context.Context, prompt string) (string, error) {
		atomic.AddInt32(&calls, 1)
		if strings.Contains(prompt, "Employee-E1") {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "ok " + prompt[strings.Index(prompt, "Employee-"):][:11], nil
	}}
	results := make([]model.MatchResult, 5)
	for i := range results {
		results[i] = finalist("E"+string(rune('1'+i)), 90-i)
		results[i].PrimarySkill = "Employee-" + results[i].EmployeeID
	}

	NewRationaleGenerator(client, 50*time.Millisecond, 2, nil).Generate(context.Background(), dataEngineerRequirement(), results)

	assert.EqualValues(t, 5, atomic.LoadInt32(&calls))
	assert.Equal(t, model.RationaleTemplated, results[0].Rationale.Source)
	for i := 1; i < len(results); i++ {
		require.Equal(t, model.RationaleGenerated, results[i].Rationale.Source)
		assert.Equal(t, "ok Employee-"+results[i].EmployeeID, results[i].Rationale.Text)
	}
}

func TestRationaleWithoutClient(t *testing.T) {
	results := []model.MatchResult{finalist("E1", 64)}
	NewRationaleGenerator(nil, time.Second, 0, nil).Generate(context.Background(), model.Requirement{}, results)
	assert.Equal(t, model.RationaleTemplated, results[0].Rationale.Source)
	assert.Contains(t, results[0].Rationale.Text, "64")
}

func TestBuildRationalePrompt(t *testing.T) {
	r := finalist("E1", 90)
	r.SkillEvidence = []model.SkillEvidence{
		{RequiredSkill: "Spark", MatchedSkill: "Apache Spark", Confidence: 95},
		{RequiredSkill: "AWS"},
	}
	p := BuildRationalePrompt(dataEngineerRequirement(), r)
	assert.Contains(t, p, "two sentences")
	assert.Contains(t, p, "- Role: Data Engineer")
	assert.Contains(t, p, "overall 90%")
	assert.Contains(t, p, "Matched skills: Spark (via Apache Spark)")
	assert.Contains(t, p, "Missing skills: AWS")
}
