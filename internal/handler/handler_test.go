package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bench-match-go/internal/model"
	"bench-match-go/internal/pipeline"
	"bench-match-go/internal/service"
	"bench-match-go/pkg/tasks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func perform(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

type fakeSearchService struct {
	resp *service.SearchResponse
	err  error
	got  service.SearchRequest
}

func (f *fakeSearchService) Search(_ context.Context, req service.SearchRequest) (*service.SearchResponse, error) {
	f.got = req
	return f.resp, f.err
}

type fakeShortlistService struct {
	view   *model.ShortlistView
	result *model.MatchResult
	err    error
}

func (f *fakeShortlistService) Record(context.Context, string, *model.MatchOutcome) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeShortlistService) Latest(context.Context, string) (*model.ShortlistView, error) {
	return f.view, f.err
}

func (f *fakeShortlistService) Breakdown(_ context.Context, _, employeeID string) (*model.MatchResult, error) {
	if f.result == nil || f.result.EmployeeID != employeeID {
		return nil, service.ErrShortlistNotFound
	}
	return f.result, nil
}

func searchRouter(s service.SearchService, sl service.ShortlistService) *gin.Engine {
	r := gin.New()
	h := NewSearchHandler(s, sl)
	r.POST("/api/v1/search", h.Search)
	r.GET("/api/v1/shortlist/:requirementId", h.Shortlist)
	r.GET("/api/v1/breakdown/:requirementId/:employeeId", h.Breakdown)
	return r
}

func TestSearchReturnsCandidates(t *testing.T) {
	svc := &fakeSearchService{resp: &service.SearchResponse{
		RequirementID: "req-1",
		Candidates:    []model.MatchResult{{Rank: 1, EmployeeID: "E1"}},
	}}
	r := searchRouter(svc, &fakeShortlistService{})

	w, env := perform(t, r, http.MethodPost, "/api/v1/search", map[string]any{"requirement_id": "req-1", "top_n": 3, "allow_partial": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, "req-1", svc.got.RequirementID)
	assert.Equal(t, 3, svc.got.TopN)
	assert.True(t, svc.got.AllowPartial)

	var data service.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Candidates, 1)
	assert.Equal(t, "E1", data.Candidates[0].EmployeeID)
}

func TestSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid", err: fmt.Errorf("%w: role_title is required", service.ErrInvalidRequirement), want: http.StatusBadRequest},
		{name: "not found", err: service.ErrRequirementNotFound, want: http.StatusNotFound},
		{name: "retrieval", err: fmt.Errorf("%w: embed query: timeout", service.ErrRetrieval), want: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := searchRouter(&fakeSearchService{err: tt.err}, &fakeShortlistService{})
			w, env := perform(t, r, http.MethodPost, "/api/v1/search", map[string]any{"requirement_id": "x"})
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want, env.Code)
		})
	}
}

func TestSearchRejectsMalformedBody(t *testing.T) {
	r := searchRouter(&fakeSearchService{}, &fakeShortlistService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShortlistAndBreakdown(t *testing.T) {
	sl := &fakeShortlistService{
		view:   &model.ShortlistView{ShortlistID: "s1", RequirementID: "req-1", CandidateCount: 1},
		result: &model.MatchResult{EmployeeID: "E1", Rank: 1},
	}
	r := searchRouter(&fakeSearchService{}, sl)

	w, env := perform(t, r, http.MethodGet, "/api/v1/shortlist/req-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"shortlist_id":"s1"`)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/breakdown/req-1/E1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/breakdown/req-1/E9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = searchRouter(&fakeSearchService{}, &fakeShortlistService{err: service.ErrShortlistNotFound})
	w, _ = perform(t, r, http.MethodGet, "/api/v1/shortlist/req-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fakeRequirementService struct {
	created *model.RequirementResponse
	err     error
	limit   int
}

func (f *fakeRequirementService) Create(_ context.Context, req model.Requirement) (*model.RequirementResponse, error) {
	if err := service.ValidateRequirement(req); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	f.created = &model.RequirementResponse{Requirement: req}
	f.created.RequirementID = "req-new"
	return f.created, nil
}

func (f *fakeRequirementService) Get(_ context.Context, id string) (*model.RequirementResponse, error) {
	if f.created == nil || f.created.RequirementID != id {
		return nil, service.ErrRequirementNotFound
	}
	return f.created, nil
}

func (f *fakeRequirementService) List(_ context.Context, limit int) ([]model.RequirementResponse, error) {
	f.limit = limit
	if f.created == nil {
		return []model.RequirementResponse{}, nil
	}
	return []model.RequirementResponse{*f.created}, nil
}

func requirementRouter(s service.RequirementService) *gin.Engine {
	r := gin.New()
	h := NewRequirementHandler(s)
	r.POST("/api/v1/requirements", h.Create)
	r.GET("/api/v1/requirements", h.List)
	r.GET("/api/v1/requirements/:id", h.Get)
	return r
}

func TestRequirementLifecycle(t *testing.T) {
	svc := &fakeRequirementService{}
	r := requirementRouter(svc)

	w, env := perform(t, r, http.MethodPost, "/api/v1/requirements", model.Requirement{
		RoleTitle:      "Data Engineer",
		RequiredSkills: []string{"Spark"},
		MinExperience:  3,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"requirement_id":"req-new"`)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/requirements/req-new", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/requirements/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/requirements?limit=abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, svc.limit)
}

func TestRequirementCreateValidation(t *testing.T) {
	r := requirementRouter(&fakeRequirementService{})
	w, env := perform(t, r, http.MethodPost, "/api/v1/requirements", model.Requirement{RoleTitle: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "invalid requirement")

	r = requirementRouter(&fakeRequirementService{err: errors.New("db down")})
	w, _ = perform(t, r, http.MethodPost, "/api/v1/requirements", model.Requirement{RoleTitle: "Data Engineer"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeSyncer struct {
	ids    []string
	called bool
	err    error
}

func (f *fakeSyncer) Sync(_ context.Context, ids []string) (*pipeline.SyncReport, error) {
	f.called = true
	f.ids = ids
	if f.err != nil {
		return nil, f.err
	}
	return &pipeline.SyncReport{Total: len(ids), Succeeded: len(ids)}, nil
}

type fakePublisher struct {
	tasks []tasks.CorpusSyncTask
	err   error
}

func (f *fakePublisher) PublishCorpusSync(_ context.Context, task tasks.CorpusSyncTask) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

func adminRouter(s CorpusSyncer, p TaskPublisher) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/admin/corpus/sync", NewAdminHandler(s, p).SyncCorpus)
	return r
}

func TestSyncCorpusPublishesTask(t *testing.T) {
	syncer := &fakeSyncer{}
	pub := &fakePublisher{}
	r := adminRouter(syncer, pub)

	w, env := perform(t, r, http.MethodPost, "/api/v1/admin/corpus/sync", CorpusSyncRequest{EmployeeIDs: []string{"E1"}})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, http.StatusAccepted, env.Code)
	require.Len(t, pub.tasks, 1)
	assert.Equal(t, []string{"E1"}, pub.tasks[0].EmployeeIDs)
	assert.NotEmpty(t, pub.tasks[0].TaskID)
	assert.Contains(t, string(env.Data), pub.tasks[0].TaskID)
	assert.False(t, syncer.called)
}

func TestSyncCorpusRunsInline(t *testing.T) {
	syncer := &fakeSyncer{}
	pub := &fakePublisher{}
	r := adminRouter(syncer, pub)

	w, env := perform(t, r, http.MethodPost, "/api/v1/admin/corpus/sync", CorpusSyncRequest{EmployeeIDs: []string{"E1", "E2"}, Wait: true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, syncer.called)
	assert.Empty(t, pub.tasks)

	var report pipeline.SyncReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 2, report.Succeeded)

	// 没有配置消息队列时，空请求体也同步执行全量同步。
	syncer = &fakeSyncer{}
	r = adminRouter(syncer, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/corpus/sync", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, syncer.called)
	assert.Nil(t, syncer.ids)
}

func TestSyncCorpusFailures(t *testing.T) {
	r := adminRouter(&fakeSyncer{}, &fakePublisher{err: errors.New("broker down")})
	w, _ := perform(t, r, http.MethodPost, "/api/v1/admin/corpus/sync", CorpusSyncRequest{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	r = adminRouter(&fakeSyncer{err: errors.New("db down")}, nil)
	w, _ = perform(t, r, http.MethodPost, "/api/v1/admin/corpus/sync", CorpusSyncRequest{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type fakeDashboardService struct {
	view *model.DashboardView
	err  error
}

func (f *fakeDashboardService) Summary(context.Context) (*model.DashboardView, error) {
	return f.view, f.err
}

func TestDashboardSummary(t *testing.T) {
	r := gin.New()
	svc := &fakeDashboardService{view: &model.DashboardView{
		BenchTotal:      4,
		BenchByStatus:   []model.StatusCount{{Status: "inactive", Count: 4}},
		TopDemandSkills: []model.SkillCount{{Skill: "Spark", Count: 2}},
	}}
	r.GET("/dashboard", NewDashboardHandler(svc).Summary)

	w, env := perform(t, r, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view model.DashboardView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.EqualValues(t, 4, view.BenchTotal)
	assert.Equal(t, "Spark", view.TopDemandSkills[0].Skill)

	svc.err = errors.New("db down")
	w, env = perform(t, r, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Code)
}
