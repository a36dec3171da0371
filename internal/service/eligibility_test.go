package service

import (
	"context"
	"errors"
	"testing"

	"bench-match-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibilityFilter(t *testing.T) {
	noProfile := &model.EmployeeRecord{Bench: &model.BenchStatus{EmployeeID: "E5", Status: "inactive"}}
	repo := &fakeEmployeeRepo{records: map[string]*model.EmployeeRecord{
		"E1": employee("E1", "Data Engineer", "Spark", 7, "inactive"),
		"E2": employee("E2", "Data Engineer", "Spark", 7, ""),
		"E3": employee("E3", "Data Engineer", "Spark", 7, "active"),
		"E4": employee("E4", "Data Engineer", "Spark", 7, "Partial"),
		"E5": noProfile,
		"E7": employee("E7", "QA Analyst", "Selenium", 2, " INACTIVE "),
	}}
	hits := []model.VectorHit{
		{EmployeeID: "E1", Distance: 0.1},
		{EmployeeID: "E2", Distance: 0.2},
		{EmployeeID: "E3", Distance: 0.3},
		{EmployeeID: "E4", Distance: 0.4},
		{EmployeeID: "E5", Distance: 0.5},
		{EmployeeID: "E6", Distance: 0.6},
		{EmployeeID: "E7", Distance: 0.7},
	}
	f := NewEligibilityFilter(repo)
	policy := EligibilityPolicy{EligibleStatus: "inactive", PartialStatus: "Partial"}

	res := f.Filter(context.Background(), hits, policy)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "E1", res.Candidates[0].EmployeeID)
	assert.Equal(t, 1, res.Candidates[0].RetrievalRank)
	assert.Equal(t, "E7", res.Candidates[1].EmployeeID)
	assert.Equal(t, 3, res.DroppedMissing)
	assert.Equal(t, 2, res.DroppedNotEligible)

	policy.AllowPartial = true
	res = f.Filter(context.Background(), hits, policy)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, "E4", res.Candidates[1].EmployeeID)
	assert.Equal(t, 1, res.DroppedNotEligible)
}

func TestEligibilityFilterLookupFailure(t *testing.T) {
	f := NewEligibilityFilter(&fakeEmployeeRepo{err: errors.New("db down")})
	res := f.Filter(context.Background(), []model.VectorHit{{EmployeeID: "E1"}, {EmployeeID: "E2"}},
		EligibilityPolicy{EligibleStatus: "inactive"})
	assert.Empty(t, res.Candidates)
	assert.Equal(t, 2, res.DroppedMissing)
}

func TestEligibilityPolicyAdmits(t *testing.T) {
	p := EligibilityPolicy{EligibleStatus: "inactive"}
	assert.True(t, p.Admits("inactive"))
	assert.False(t, p.Admits("Partial"))
	p.AllowPartial = true
	assert.False(t, p.Admits("Partial"))
	p.PartialStatus = "Partial"
	assert.True(t, p.Admits("partial"))
	assert.False(t, p.Admits(""))
}
