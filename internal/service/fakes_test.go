package service

import (
	"context"
	"errors"
	"sync"

	"bench-match-go/internal/config"
	"bench-match-go/internal/model"
)

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		DefaultTopN:         5,
		MaxTopN:             20,
		RetrievalMultiplier: 6,
		RetrievalFloor:      35,
		EligibleStatus:      "inactive",
		PartialStatus:       "Partial",
		PrimarySkillScope:   config.PrimarySkillScopeRequiredSkills,
		NormalizeShortQuery: true,
		RationaleWorkers:    4,
	}
}

type fakeEmbedder struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Model() string { return "test-embed" }

type fakeSearcher struct {
	hits  []model.VectorHit
	err   error
	lastK int
}

func (f *fakeSearcher) Query(_ context.Context, _ []float32, k int) ([]model.VectorHit, error) {
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.VectorHit, len(f.hits))
	copy(out, f.hits)
	return out, nil
}

type fakeEmployeeRepo struct {
	records map[string]*model.EmployeeRecord
	err     error
}

func (f *fakeEmployeeRepo) LoadSourceRecords(context.Context, []string) (*model.SourceRecords, error) {
	return nil, errors.New("not used")
}

func (f *fakeEmployeeRepo) LoadRecords(_ context.Context, ids []string) (map[string]*model.EmployeeRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]*model.EmployeeRecord{}
	for _, id := range ids {
		if rec, ok := f.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

type fakeLLM struct {
	complete func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return f.complete(ctx, prompt)
}

// employee 构造一名带 bench 状态的员工。
func employee(id, role, primary string, years float64, status string, skills ...string) *model.EmployeeRecord {
	rec := &model.EmployeeRecord{
		Profile: &model.EmployeeProfile{
			EmployeeID:      id,
			Name:            "Employee " + id,
			Role:            role,
			PrimarySkill:    primary,
			ExperienceYears: years,
		},
	}
	if status != "" {
		rec.Bench = &model.BenchStatus{EmployeeID: id, Status: status}
	}
	for _, s := range skills {
		rec.Skills = append(rec.Skills, model.SkillRecord{EmployeeID: id, SkillName: s, YearsExperience: 2})
	}
	return rec
}

func dataEngineerRequirement() model.Requirement {
	return model.Requirement{
		RoleTitle:      "Data Engineer",
		RequiredSkills: []string{"Spark", "AWS"},
		MinExperience:  5,
	}
}
