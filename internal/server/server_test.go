package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/codementor/internal/auth"
	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage/memory"
	"github.com/vietddude/codementor/internal/llm"
)

type stubAI struct {
	configured bool
	explain    string
	draft      *llm.PlanDraft
	err        error
	calls      int
	lastPlan   llm.PlanRequest
}

func (s *stubAI) Configured() bool { return s.configured }

func (s *stubAI) Explain(ctx context.Context, code, language, level string) (string, error) {
	s.calls++
	return s.explain, s.err
}

func (s *stubAI) Debug(ctx context.Context, code, errText, description string) (string, error) {
	s.calls++
	return "check line 1", s.err
}

func (s *stubAI) GeneratePlan(ctx context.Context, req llm.PlanRequest) (*llm.PlanDraft, error) {
	s.calls++
	s.lastPlan = req
	return s.draft, s.err
}

type memExplainCache struct {
	values map[string]string
}

func (m *memExplainCache) Get(ctx context.Context, code, language, level string) (string, bool, error) {
	v, ok := m.values[code+"|"+language+"|"+level]
	return v, ok, nil
}

func (m *memExplainCache) Set(ctx context.Context, code, language, level, explanation string) error {
	m.values[code+"|"+language+"|"+level] = explanation
	return nil
}

type testEnv struct {
	t   *testing.T
	srv *Server
	ai  *stubAI
}

func newTestEnv(t *testing.T, ai *stubAI, opts ...func(*Deps)) *testEnv {
	t.Helper()
	store := memory.NewMemoryStorage()
	tokens, err := auth.NewTokenManager(auth.Config{JWTSecret: "test-secret"})
	require.NoError(t, err)

	deps := Deps{
		Users:  memory.NewUserRepo(store),
		Plans:  memory.NewPlanRepo(store),
		Tokens: tokens,
		AI:     ai,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return &testEnv{t: t, srv: New(Config{}, deps), ai: ai}
}

func (e *testEnv) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (e *testEnv) register(email string) string {
	e.t.Helper()
	rec, out := e.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Ada", "email": email, "password": "secret1", "experienceLevel": "intermediate",
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["token"].(string)
}

func TestRoot(t *testing.T) {
	env := newTestEnv(t, &stubAI{})
	rec, out := env.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CodeMentor AI API is running", out["message"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, &stubAI{})
	token := env.register("Ada@Example.com")
	assert.NotEmpty(t, token)

	rec, out := env.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, msgUserExists, out["message"])

	rec, out = env.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	user := out["user"].(map[string]any)
	assert.Equal(t, "intermediate", user["experienceLevel"])
	assert.Equal(t, float64(defaultStudyTime), user["studyTimePerWeek"])
	assert.NotContains(t, user, "PasswordHash")

	rec, out = env.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ada@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidCredentials, out["message"])

	rec, out = env.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", out["email"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, &stubAI{})
	rec, out := env.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "bad", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := out["errors"].(map[string]any)
	assert.Equal(t, "name is required", errs["name"])
	assert.Equal(t, "Please enter a valid email address", errs["email"])
	assert.Equal(t, "password must be at least 6 characters", errs["password"])
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, &stubAI{})

	rec, out := env.do(http.MethodGet, "/api/learning/plan", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgNoToken, out["message"])

	rec, out = env.do(http.MethodGet, "/api/learning/plan", "demo-token-123", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgBadToken, out["message"])
}

func TestPlanLifecycle(t *testing.T) {
	env := newTestEnv(t, &stubAI{})
	token := env.register("ada@example.com")

	rec, _ := env.do(http.MethodGet, "/api/learning/plan", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(rec.Body.Bytes())))

	rec, out := env.do(http.MethodGet, "/api/learning/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), out["totalHours"])

	rec, out = env.do(http.MethodPost, "/api/learning/plan", token, map[string]any{
		"goal": "Learn Go",
		"weeks": []map[string]any{
			{"weekNumber": 1, "topics": []string{"syntax"}, "estimatedHours": 4},
			{"weekNumber": 2, "topics": []string{"types"}, "estimatedHours": 5},
			{"weekNumber": 3, "estimatedHours": 6},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	planID := out["id"].(string)
	assert.Equal(t, float64(0), out["progress"])

	rec, out = env.do(http.MethodPatch, "/api/learning/plan/"+planID+"/progress", token,
		map[string]any{"weekNumber": 1, "completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(33), out["progress"])

	rec, out = env.do(http.MethodPatch, "/api/learning/plan/"+planID+"/progress", token,
		map[string]any{"weekNumber": 2, "completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(67), out["progress"])

	rec, out = env.do(http.MethodGet, "/api/learning/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(15), out["totalHours"])
	assert.Equal(t, float64(2), out["topicsCompleted"])
	assert.Equal(t, float64(2), out["currentStreak"])

	rec, out = env.do(http.MethodGet, "/api/learning/plan", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planID, out["id"])
}

func TestUpdateProgressErrors(t *testing.T) {
	env := newTestEnv(t, &stubAI{})
	owner := env.register("owner@example.com")
	other := env.register("other@example.com")

	_, out := env.do(http.MethodPost, "/api/learning/plan", owner, map[string]any{
		"goal": "Learn Go", "weeks": []map[string]any{{"weekNumber": 1}},
	})
	planID := out["id"].(string)

	rec, _ := env.do(http.MethodPatch, "/api/learning/plan/missing/progress", owner,
		map[string]any{"weekNumber": 1, "completed": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(http.MethodPatch, "/api/learning/plan/"+planID+"/progress", other,
		map[string]any{"weekNumber": 1, "completed": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, out = env.do(http.MethodPatch, "/api/learning/plan/"+planID+"/progress", owner,
		map[string]any{"weekNumber": 0, "completed": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["errors"], "weekNumber")
}

func TestExplain(t *testing.T) {
	ai := &stubAI{configured: true, explain: "It adds numbers."}
	cache := &memExplainCache{values: map[string]string{}}
	env := newTestEnv(t, ai, func(d *Deps) { d.ExplainCache = cache })
	token := env.register("ada@example.com")

	body := map[string]any{"code": "a + b", "language": "python", "level": "beginner"}
	for i := 0; i < 2; i++ {
		rec, out := env.do(http.MethodPost, "/api/ai/explain", token, body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "It adds numbers.", out["explanation"])
	}
	assert.Equal(t, 1, ai.calls, "second request should be served from cache")
}

func TestExplainTokenLimit(t *testing.T) {
	ai := &stubAI{configured: true}
	env := newTestEnv(t, ai, func(d *Deps) {
		d.CountTokens = func(s string) int { return len(s) }
		d.MaxInputTokens = 3
	})
	token := env.register("ada@example.com")

	rec, out := env.do(http.MethodPost, "/api/ai/explain", token,
		map[string]any{"code": "too long", "language": "go", "level": "beginner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["errors"], "code")
	assert.Zero(t, ai.calls)
}

func TestAINotConfigured(t *testing.T) {
	env := newTestEnv(t, &stubAI{configured: false})
	token := env.register("ada@example.com")

	rec, out := env.do(http.MethodPost, "/api/ai/debug", token, map[string]any{"code": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, msgAINotConfigured, out["message"])
}

func TestAIProviderErrorsAreMapped(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"rate limited", &llm.APIError{Status: 429, Message: "slow down"}, http.StatusTooManyRequests},
		{"bad key", &llm.APIError{Status: 401, Message: "bad key"}, http.StatusBadGateway},
		{"provider down", &llm.APIError{Status: 503}, http.StatusServiceUnavailable},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &stubAI{configured: true, err: tt.err})
			token := env.register("ada@example.com")
			rec, out := env.do(http.MethodPost, "/api/ai/debug", token, map[string]any{"code": "x"})
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, msgAIError, out["message"])
		})
	}
}

func TestGeneratePlanUsesStudyTime(t *testing.T) {
	ai := &stubAI{configured: true, draft: &llm.PlanDraft{Weeks: []domain.Week{{WeekNumber: 1, Topics: []string{}}}}}
	env := newTestEnv(t, ai)
	token := env.register("ada@example.com")

	rec, out := env.do(http.MethodPost, "/api/ai/generate-plan", token, map[string]any{
		"goal": "Learn Go", "experienceLevel": "beginner", "weeksAvailable": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["weeks"], 1)
	assert.Equal(t, defaultStudyTime, ai.lastPlan.HoursPerWeek)

	rec, out = env.do(http.MethodPost, "/api/ai/generate-plan", token, map[string]any{
		"goal": "Go", "experienceLevel": "expert", "weeksAvailable": 60,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := out["errors"].(map[string]any)
	assert.Contains(t, errs, "goal")
	assert.Contains(t, errs, "experienceLevel")
	assert.Equal(t, "weeksAvailable must be between 1 and 52", errs["weeksAvailable"])
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, &stubAI{}, func(d *Deps) { d.RateLimit = RateLimitConfig{RPS: 0.001, Burst: 2} })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec, _ := env.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@b.co", "password": "x"})
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	// Health is not rate limited
	rec, _ := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterForgetsIdleVisitors(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{RPS: 1, Burst: 1})
	now := time.Now()
	assert.True(t, rl.allow("1.2.3.4", now))
	assert.False(t, rl.allow("1.2.3.4", now))

	later := now.Add(2 * visitorTTL)
	assert.True(t, rl.allow("5.6.7.8", later))
	assert.NotContains(t, rl.visitors, "1.2.3.4")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &stubAI{}, func(d *Deps) {
		d.Checks = []Checker{
			{Name: "database", Critical: true, Check: func(context.Context) error { return nil }},
			{Name: "redis", Check: func(context.Context) error { return errors.New("down") }},
		}
	})

	rec, out := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(StatusDegraded), out["status"])

	rec, out = env.do(http.MethodGet, "/health/detailed", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	components := out["components"].(map[string]any)
	assert.Equal(t, "down", components["redis"].(map[string]any)["error"])

	critical := newTestEnv(t, &stubAI{}, func(d *Deps) {
		d.Checks = []Checker{{Name: "database", Critical: true, Check: func(context.Context) error { return errors.New("x") }}}
	})
	rec, _ = critical.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, &stubAI{})
	env.do(http.MethodGet, "/", "", nil)
	rec, _ := env.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "codementor_http_requests_total")
}
