package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/catalog"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/queue"
	"github.com/jonathan/career-guide/internal/scoring"
	"github.com/jonathan/career-guide/internal/server/middleware"
	"github.com/jonathan/career-guide/internal/server/ratelimit"
	"github.com/jonathan/career-guide/internal/types"
)

// mockStore implements the profile, metrics, study plan and preference stores
type mockStore struct {
	mu         sync.Mutex
	skills     map[uuid.UUID][]types.Skill
	education  map[uuid.UUID][]types.Education
	experience map[uuid.UUID][]types.Experience
	metrics    map[uuid.UUID]*types.Metrics
	skillsErr  error

	savedScores map[uuid.UUID]types.Scores
	savedPlans  map[uuid.UUID]*types.StudyPlan
	preferences map[uuid.UUID]string
}

func newMockStore() *mockStore {
	return &mockStore{
		skills:      make(map[uuid.UUID][]types.Skill),
		education:   make(map[uuid.UUID][]types.Education),
		experience:  make(map[uuid.UUID][]types.Experience),
		metrics:     make(map[uuid.UUID]*types.Metrics),
		savedScores: make(map[uuid.UUID]types.Scores),
		savedPlans:  make(map[uuid.UUID]*types.StudyPlan),
		preferences: make(map[uuid.UUID]string),
	}
}

func (m *mockStore) Skills(_ context.Context, id uuid.UUID) ([]types.Skill, error) {
	return m.skills[id], m.skillsErr
}

func (m *mockStore) Education(_ context.Context, id uuid.UUID) ([]types.Education, error) {
	return m.education[id], nil
}

func (m *mockStore) Experience(_ context.Context, id uuid.UUID) ([]types.Experience, error) {
	return m.experience[id], nil
}

func (m *mockStore) LatestResume(context.Context, uuid.UUID) (*types.Resume, error) {
	return nil, nil
}

func (m *mockStore) Metrics(_ context.Context, id uuid.UUID) (*types.Metrics, error) {
	return m.metrics[id], nil
}

func (m *mockStore) SaveMetrics(_ context.Context, id uuid.UUID, scores types.Scores) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedScores[id] = scores
	return nil
}

func (m *mockStore) SaveStudyPlan(_ context.Context, id uuid.UUID, plan *types.StudyPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedPlans[id] = plan
	return nil
}

func (m *mockStore) SaveJobPreference(_ context.Context, id uuid.UUID, jobTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[id] = jobTitle
	return nil
}

type mockClient struct {
	response string
}

func (c *mockClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return c.response, nil
}

func (c *mockClient) Close() error { return nil }

type mockPublisher struct {
	published []queue.Request
	err       error
}

func (p *mockPublisher) Publish(req queue.Request) error {
	p.published = append(p.published, req)
	return p.err
}

// testServer wires a Server to in-memory collaborators
type testServer struct {
	*Server
	store     *mockStore
	publisher *mockPublisher
	handler   http.Handler
}

type testOptions struct {
	withoutAssistant bool
	withoutPublisher bool
	rateLimit        *ratelimit.Config
}

func newTestServer(t *testing.T, opts testOptions) *testServer {
	t.Helper()
	store := newMockStore()
	svc := analysis.NewService(analysis.Dependencies{
		Store:       store,
		Engine:      analysis.NewEngine(catalog.MustDefault()),
		Metrics:     store,
		StudyPlans:  store,
		Preferences: store,
	})

	deps := Dependencies{
		Service:   svc,
		RateLimit: opts.rateLimit,
	}
	if deps.RateLimit == nil {
		deps.RateLimit = &ratelimit.Config{Enabled: false}
	}
	if !opts.withoutAssistant {
		deps.Assistant = assistant.New(svc, &mockClient{response: "Learn TypeScript."}, nil, nil)
	}
	publisher := &mockPublisher{}
	if !opts.withoutPublisher {
		deps.Publisher = publisher
	}

	s := New(Config{Port: 0}, deps)
	t.Cleanup(s.rateLimiter.Stop)
	return &testServer{Server: s, store: store, publisher: publisher, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func frontendSkills() []types.Skill {
	return []types.Skill{
		{Name: "JavaScript", Level: 4},
		{Name: "React", Level: 4},
		{Name: "HTML", Level: 5},
		{Name: "CSS", Level: 4},
		{Name: "TypeScript", Level: 2},
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleUserAnalysis(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()
	ts.store.skills[userID] = frontendSkills()

	rec := ts.do(t, http.MethodGet, "/users/"+userID.String()+"/analysis", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeBody[types.CareerAnalysis](t, rec)
	job := got.FindJob("Frontend Developer")
	require.NotNil(t, job)
	assert.Equal(t, 100, job.MatchScore)
	assert.Empty(t, ts.store.savedScores)
}

func TestHandleUserAnalysis_WriteBack(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()
	ts.store.skills[userID] = frontendSkills()

	rec := ts.do(t, http.MethodGet, "/users/"+userID.String()+"/analysis?write_back=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[types.CareerAnalysis](t, rec)
	assert.Equal(t, types.Scores{ResumeScore: got.ResumeScore, InterviewReadiness: got.InterviewReadiness}, ts.store.savedScores[userID])
}

func TestHandleUserAnalysis_InsufficientData(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	rec := ts.do(t, http.MethodGet, "/users/"+uuid.New().String()+"/analysis", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, profile.InsufficientDataMessage, decodeBody[map[string]string](t, rec)["error"])
}

func TestHandleUserAnalysis_Errors(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	rec := ts.do(t, http.MethodGet, "/users/not-a-uuid/analysis", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.store.skillsErr = errors.New("connection refused")
	rec = ts.do(t, http.MethodGet, "/users/"+uuid.New().String()+"/analysis", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHandleAnalyzeProfile(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{
			name: "valid snapshot",
			body: map[string]any{
				"skills":    []map[string]any{{"name": "React", "level": 4}, {"name": "TypeScript", "level": 2}},
				"education": []map[string]any{{"institution": "State University", "degree": "BSc"}},
			},
			wantStatus: http.StatusOK,
		},
		{name: "no skills", body: map[string]any{"skills": []any{}}, wantStatus: http.StatusUnprocessableEntity},
		{name: "level out of range", body: map[string]any{"skills": []map[string]any{{"name": "Go", "level": 9}}}, wantStatus: http.StatusBadRequest},
		{name: "missing name", body: map[string]any{"skills": []map[string]any{{"level": 3}}}, wantStatus: http.StatusBadRequest},
		{name: "malformed JSON", body: "{not json", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/analysis", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandleAnalyzeProfile_GapOrdering(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	rec := ts.do(t, http.MethodPost, "/analysis", map[string]any{
		"skills": []map[string]any{{"name": "React", "level": 4}, {"name": "TypeScript", "level": 2}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[types.CareerAnalysis](t, rec)
	require.NotEmpty(t, got.SkillGaps)
	assert.Equal(t, "TypeScript", got.SkillGaps[0].SkillName)
}

func TestHandleAnalyzeAsync(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()

	rec := ts.do(t, http.MethodPost, "/analysis/async", map[string]any{
		"userId":           userID.String(),
		"writeBackMetrics": true,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, AsyncAnalysisResponse{UserID: userID.String(), Status: "queued"}, decodeBody[AsyncAnalysisResponse](t, rec))
	require.Len(t, ts.publisher.published, 1)
	assert.Equal(t, queue.Request{UserID: userID, WriteBackMetrics: true}, ts.publisher.published[0])

	rec = ts.do(t, http.MethodPost, "/analysis/async", map[string]any{"userId": uuid.Nil.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.publisher.err = errors.New("channel closed")
	rec = ts.do(t, http.MethodPost, "/analysis/async", map[string]any{"userId": userID.String()})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleAnalyzeAsync_NotConfigured(t *testing.T) {
	ts := newTestServer(t, testOptions{withoutPublisher: true})

	rec := ts.do(t, http.MethodPost, "/analysis/async", map[string]any{"userId": uuid.New().String()})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHandleScores(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()
	ts.store.education[userID] = []types.Education{{Institution: "A"}, {Institution: "B"}, {Institution: "C"}}
	ts.store.experience[userID] = []types.Experience{{Company: "X"}, {Company: "Y"}}

	rec := ts.do(t, http.MethodGet, "/users/"+userID.String()+"/scores?write_back=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[types.Scores](t, rec)
	assert.Equal(t, 79, got.ResumeScore)
	assert.Equal(t, got, ts.store.savedScores[userID])
}

func TestHandleCachedScores(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()

	rec := ts.do(t, http.MethodGet, "/users/"+userID.String()+"/scores/cached", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resume, interview := 72, 58
	ts.store.metrics[userID] = &types.Metrics{ResumeScore: &resume, InterviewScore: &interview, LastUpdated: time.Now()}
	rec = ts.do(t, http.MethodGet, "/users/"+userID.String()+"/scores/cached", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Scores{ResumeScore: 72, InterviewReadiness: 58}, decodeBody[types.Scores](t, rec))
}

func TestHandleResumeScore(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	resume := types.Resume{
		ContactInfo: types.ContactInfo{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"},
		Summary:     strings.Repeat("Engineer focused on analytical engines. ", 3),
	}
	rec := ts.do(t, http.MethodPost, "/resume/score", resume)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, scoring.ResumeScore(&resume), decodeBody[scoring.ResumeBreakdown](t, rec))

	rec = ts.do(t, http.MethodPost, "/resume/score", `{"summary": 42}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/resume/score", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStudyPlan(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()
	ts.store.skills[userID] = frontendSkills()
	path := "/users/" + userID.String() + "/study-plan"

	rec := ts.do(t, http.MethodPost, path, map[string]string{"jobTitle": "Frontend Developer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	plan := decodeBody[types.StudyPlan](t, rec)
	assert.Equal(t, "Frontend Developer", plan.JobTitle)
	assert.Equal(t, analysis.StudyPlanTimeframe, plan.Timeframe)
	assert.NotNil(t, ts.store.savedPlans[userID])

	rec = ts.do(t, http.MethodPost, path, map[string]string{"jobTitle": "Astronaut"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/users/"+uuid.New().String()+"/study-plan", map[string]string{"jobTitle": "Frontend Developer"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleJobPreference(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()

	rec := ts.do(t, http.MethodPut, "/users/"+userID.String()+"/job-preference", map[string]string{"jobTitle": "DevOps Engineer"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "DevOps Engineer", ts.store.preferences[userID])

	rec = ts.do(t, http.MethodPut, "/users/"+userID.String()+"/job-preference", map[string]string{"jobTitle": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssistant(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	userID := uuid.New()
	ts.store.skills[userID] = frontendSkills()

	rec := ts.do(t, http.MethodPost, "/users/"+userID.String()+"/assistant", map[string]string{"question": "What next?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Learn TypeScript.", decodeBody[assistant.Reply](t, rec).Response)

	rec = ts.do(t, http.MethodPost, "/users/"+userID.String()+"/assistant", map[string]string{"question": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAssistant_NotConfigured(t *testing.T) {
	ts := newTestServer(t, testOptions{withoutAssistant: true})

	rec := ts.do(t, http.MethodPost, "/users/"+uuid.New().String()+"/assistant", map[string]string{"question": "Hi"})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHandleCatalog(t *testing.T) {
	ts := newTestServer(t, testOptions{})
	cat := catalog.MustDefault()

	rec := ts.do(t, http.MethodGet, "/catalog/roles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.JobRole](t, rec), len(cat.Roles()))

	rec = ts.do(t, http.MethodGet, "/catalog/demand", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.DemandSkill](t, rec), len(cat.DemandSkills()))

	rec = ts.do(t, http.MethodGet, "/catalog/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]types.CourseRecommendation](t, rec), len(cat.Courses()))
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t, testOptions{})

	rec := ts.do(t, http.MethodOptions, "/analysis", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, testOptions{rateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Hour,
	}})

	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodGet, "/catalog/roles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := ts.do(t, http.MethodGet, "/catalog/roles", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, rec)["error"])

	// Health checks are never limited
	rec = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
