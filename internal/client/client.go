// Package client calls the codementor API through the resilient-request
// layer. Every operation returns an orchestrator.Result and never panics or
// fails outright: the caller gets remote data, fallback data, or a classified
// error.
package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/kv"
	"github.com/vietddude/codementor/internal/resilience/fallback"
	"github.com/vietddude/codementor/internal/resilience/orchestrator"
	"github.com/vietddude/codementor/internal/resilience/retry"
	"github.com/vietddude/codementor/internal/resilience/validate"
)

// Config holds client settings.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	SessionFile    string        `yaml:"session_file"`
	MaxRetries     int           `yaml:"max_retries"`
	BaseDelay      time.Duration `yaml:"base_delay"`
	AITimeout      time.Duration `yaml:"ai_timeout"`
	AuthTimeout    time.Duration `yaml:"auth_timeout"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	MaxInputTokens int           `yaml:"max_input_tokens"`
	// Seed fixes the fallback generator. Zero picks a time-based seed.
	Seed uint64 `yaml:"seed"`
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:5000"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = retry.DefaultConfig.MaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = retry.DefaultConfig.BaseDelay
	}
	if c.AITimeout <= 0 {
		c.AITimeout = 30 * time.Second
	}
	if c.AuthTimeout <= 0 {
		c.AuthTimeout = 10 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 2 * time.Second
	}
	return c
}

// Client is a codementor API client bound to one Session.
type Client struct {
	cfg         Config
	baseURL     string
	httpClient  *http.Client
	session     *Session
	orch        *orchestrator.Orchestrator
	fallback    *fallback.Generator
	countTokens func(string) int
	log         *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithOrchestrator(o *orchestrator.Orchestrator) Option {
	return func(c *Client) { c.orch = o }
}

func WithFallback(g *fallback.Generator) Option {
	return func(c *Client) { c.fallback = g }
}

// WithTokenCounter enables the input token limit on code submissions.
func WithTokenCounter(count func(string) int) Option {
	return func(c *Client) { c.countTokens = count }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client.
func New(cfg Config, session *Session, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(),
		session:    session,
		log:        slog.Default().With("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.orch == nil {
		c.orch = orchestrator.New(
			orchestrator.WithRetryConfig(retry.Config{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.BaseDelay}),
			orchestrator.WithConnectivity(Probe(c.baseURL, cfg.ProbeTimeout)),
			orchestrator.WithLogger(c.log),
		)
	}
	if c.fallback == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		c.fallback = fallback.NewSeeded(seed)
	}
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session {
	return c.session
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates. When the backend cannot be used the session falls
// back to a demo session.
func (c *Client) Login(ctx context.Context, email, password string) orchestrator.Result[*AuthResponse] {
	d := orchestrator.Descriptor{
		Operation: domain.OpLogin,
		Payload:   map[string]string{"email": email, "password": password},
		Timeout:   c.cfg.AuthTimeout,
	}
	remote := func(ctx context.Context) (*AuthResponse, error) {
		var out AuthResponse
		err := c.call(ctx, http.MethodPost, "/api/auth/login",
			map[string]string{"email": email, "password": password}, &out)
		return &out, err
	}
	res := orchestrator.Execute(ctx, c.orch, d, remote, validate.LoginRules(),
		func() *AuthResponse { return c.demoAuth(email, "", "") })
	c.storeSession(ctx, res)
	return res
}

// RegisterRequest is a new account.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
}

// Register creates an account. It is never retried.
func (c *Client) Register(ctx context.Context, req RegisterRequest) orchestrator.Result[*AuthResponse] {
	d := orchestrator.Descriptor{
		Operation: domain.OpRegister,
		Payload: map[string]string{
			"name":            req.Name,
			"email":           req.Email,
			"password":        req.Password,
			"experienceLevel": req.ExperienceLevel,
		},
		Timeout: c.cfg.AuthTimeout,
	}
	remote := func(ctx context.Context) (*AuthResponse, error) {
		var out AuthResponse
		err := c.call(ctx, http.MethodPost, "/api/auth/register", req, &out)
		return &out, err
	}
	res := orchestrator.Execute(ctx, c.orch, d, remote, validate.RegisterRules(),
		func() *AuthResponse { return c.demoAuth(req.Email, req.Name, req.ExperienceLevel) })
	c.storeSession(ctx, res)
	return res
}

func (c *Client) demoAuth(email, name, level string) *AuthResponse {
	lvl := domain.Level("")
	if level != "" {
		lvl = domain.ParseLevel(level)
	}
	token, user := c.fallback.DemoSession(email, name, lvl)
	return &AuthResponse{Token: token, User: user}
}

func (c *Client) storeSession(ctx context.Context, res orchestrator.Result[*AuthResponse]) {
	if !res.HasData() || res.Data == nil || res.Data.Token == "" {
		return
	}
	if err := c.session.Set(ctx, res.Data.Token, res.Data.User); err != nil {
		c.log.Warn("Failed to persist session", "error", err)
	}
}

// Logout clears the session and cached data.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

// Me returns the current user, or the stored user when the backend cannot be reached.
func (c *Client) Me(ctx context.Context) orchestrator.Result[*domain.User] {
	d := orchestrator.Descriptor{Operation: domain.OpFetchUser, Idempotent: true, Timeout: c.cfg.AuthTimeout}
	remote := func(ctx context.Context) (*domain.User, error) {
		var out domain.User
		err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, &out)
		return &out, err
	}
	var fb func() *domain.User
	if u := c.session.User(); u != nil {
		fb = func() *domain.User { return u }
	}
	return orchestrator.Execute(ctx, c.orch, d, remote, nil, fb)
}

// ExplainCode explains a snippet at the given level. Falls back to a
// templated explanation.
func (c *Client) ExplainCode(ctx context.Context, code, language string, level domain.Level) orchestrator.Result[string] {
	d := orchestrator.Descriptor{
		Operation:  domain.OpExplainCode,
		Payload:    map[string]string{"code": code, "language": language, "level": string(level)},
		Idempotent: true,
		Timeout:    c.cfg.AITimeout,
	}
	remote := func(ctx context.Context) (string, error) {
		var out struct {
			Explanation string `json:"explanation"`
		}
		err := c.call(ctx, http.MethodPost, "/api/ai/explain", d.Payload, &out)
		return out.Explanation, err
	}
	rules := validate.ExplainRules(c.countTokens, c.cfg.MaxInputTokens)
	return orchestrator.Execute(ctx, c.orch, d, remote, rules,
		func() string { return c.fallback.ExplainCode(code, language, level) })
}

// DebugCode asks for debugging guidance. There is no offline substitute.
func (c *Client) DebugCode(ctx context.Context, code, errText, description string) orchestrator.Result[string] {
	d := orchestrator.Descriptor{
		Operation:  domain.OpDebugCode,
		Payload:    map[string]string{"code": code, "error": errText, "description": description},
		Idempotent: true,
		Timeout:    c.cfg.AITimeout,
	}
	remote := func(ctx context.Context) (string, error) {
		var out struct {
			Guidance string `json:"guidance"`
		}
		err := c.call(ctx, http.MethodPost, "/api/ai/debug", d.Payload, &out)
		return out.Guidance, err
	}
	return orchestrator.Execute(ctx, c.orch, d, remote, validate.DebugRules(), nil)
}

// PlanRequest describes the plan to generate.
type PlanRequest struct {
	Goal            string `json:"goal"`
	ExperienceLevel string `json:"experienceLevel"`
	WeeksAvailable  int    `json:"weeksAvailable"`
	HoursPerWeek    int    `json:"hoursPerWeek,omitempty"`
}

func (r PlanRequest) payload() map[string]string {
	p := map[string]string{
		"goal":            r.Goal,
		"experienceLevel": r.ExperienceLevel,
		"weeksAvailable":  strconv.Itoa(r.WeeksAvailable),
	}
	if r.HoursPerWeek != 0 {
		p["hoursPerWeek"] = strconv.Itoa(r.HoursPerWeek)
	}
	return p
}

// GeneratePlan generates a plan and saves it. A generated plan that cannot
// be produced remotely is replaced by a local one; a plan that was generated
// but could not be saved is reported as an error.
func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) orchestrator.Result[*domain.Plan] {
	d := orchestrator.Descriptor{
		Operation:  domain.OpGeneratePlan,
		Payload:    req.payload(),
		Idempotent: true,
		Timeout:    c.cfg.AITimeout,
	}
	generate := func(ctx context.Context) ([]domain.Week, error) {
		var out struct {
			Weeks []domain.Week `json:"weeks"`
		}
		err := c.call(ctx, http.MethodPost, "/api/ai/generate-plan", req, &out)
		return out.Weeks, err
	}

	var local *domain.Plan
	gen := orchestrator.Execute(ctx, c.orch, d, generate, validate.PlanRules(), func() []domain.Week {
		local = c.fallback.GeneratePlan(req.Goal, domain.ParseLevel(req.ExperienceLevel), req.WeeksAvailable)
		return local.Weeks
	})
	switch {
	case gen.IsFallback():
		return orchestrator.Result[*domain.Plan]{Source: orchestrator.Fallback, Data: local, Err: gen.Err}
	case gen.Err != nil:
		return orchestrator.Result[*domain.Plan]{Source: orchestrator.Remote, Err: gen.Err}
	}

	save := orchestrator.Descriptor{Operation: domain.OpSavePlan, Timeout: c.cfg.AuthTimeout}
	saved := orchestrator.Execute(ctx, c.orch, save, func(ctx context.Context) (*domain.Plan, error) {
		var out domain.Plan
		err := c.call(ctx, http.MethodPost, "/api/learning/plan",
			map[string]any{"goal": req.Goal, "weeks": gen.Data}, &out)
		return &out, err
	}, nil, nil)
	if saved.Err == nil {
		c.cachePlan(ctx, saved.Data)
	}
	return saved
}

// FetchPlan returns the user's latest plan. Data is nil when the user has
// none. The last plan seen is served when the backend cannot be reached.
func (c *Client) FetchPlan(ctx context.Context) orchestrator.Result[*domain.Plan] {
	d := orchestrator.Descriptor{Operation: domain.OpFetchPlan, Idempotent: true, Timeout: c.cfg.AuthTimeout}
	remote := func(ctx context.Context) (*domain.Plan, error) {
		var out *domain.Plan
		err := c.call(ctx, http.MethodGet, "/api/learning/plan", nil, &out)
		return out, err
	}

	var fb func() *domain.Plan
	if cached := c.CachedPlan(ctx); cached != nil {
		fb = func() *domain.Plan { return cached }
	}
	res := orchestrator.Execute(ctx, c.orch, d, remote, nil, fb)
	if res.Err == nil && res.Data != nil {
		c.cachePlan(ctx, res.Data)
	}
	return res
}

// UpdateProgress marks a week completed or not.
func (c *Client) UpdateProgress(ctx context.Context, planID string, weekNumber int, completed bool) orchestrator.Result[*domain.Plan] {
	d := orchestrator.Descriptor{
		Operation: domain.OpUpdateProgress,
		Payload: map[string]string{
			"planId":     planID,
			"weekNumber": strconv.Itoa(weekNumber),
			"completed":  strconv.FormatBool(completed),
		},
		Idempotent: true,
		Timeout:    c.cfg.AuthTimeout,
	}
	rules := validate.ProgressRules()
	rules["planId"] = validate.Rule{Required: true}

	remote := func(ctx context.Context) (*domain.Plan, error) {
		var out domain.Plan
		err := c.call(ctx, http.MethodPatch, "/api/learning/plan/"+url.PathEscape(planID)+"/progress",
			map[string]any{"weekNumber": weekNumber, "completed": completed}, &out)
		return &out, err
	}
	res := orchestrator.Execute(ctx, c.orch, d, remote, rules, nil)
	if res.Err == nil {
		c.cachePlan(ctx, res.Data)
	}
	return res
}

// FetchStats returns dashboard numbers. Falls back to generated ones.
func (c *Client) FetchStats(ctx context.Context) orchestrator.Result[domain.Stats] {
	d := orchestrator.Descriptor{Operation: domain.OpFetchStats, Idempotent: true, Timeout: c.cfg.AITimeout}
	remote := func(ctx context.Context) (domain.Stats, error) {
		var out domain.Stats
		err := c.call(ctx, http.MethodGet, "/api/learning/stats", nil, &out)
		return out, err
	}
	return orchestrator.Execute(ctx, c.orch, d, remote, nil, c.fallback.ComputeStats)
}

// CachedPlan returns the plan saved by the last successful plan call.
func (c *Client) CachedPlan(ctx context.Context) *domain.Plan {
	var p domain.Plan
	found, err := kv.GetJSON(ctx, c.session.Store(), keyPlan, &p)
	if err != nil {
		c.log.Warn("Failed to read cached plan", "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return &p
}

func (c *Client) cachePlan(ctx context.Context, p *domain.Plan) {
	if p == nil {
		return
	}
	if err := kv.SetJSON(ctx, c.session.Store(), keyPlan, p); err != nil {
		c.log.Warn("Failed to cache plan", "error", err)
	}
}
