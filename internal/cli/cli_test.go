package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/codementor/internal/client"
	"github.com/vietddude/codementor/internal/control"
	"github.com/vietddude/codementor/internal/core/config"
	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/resilience/classify"
	"github.com/vietddude/codementor/internal/resilience/orchestrator"
)

// execute runs the root command with a config that stores the session in a
// temp dir and never retries.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	yaml := "client:\n  session_file: " + filepath.Join(dir, "session.json") +
		"\n  max_retries: 1\n  base_delay: 1ms\n  probe_timeout: 200ms\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0o600))
	return run(t, stdin, append(args, "--config", cfgFile)...)
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExplain_OfflineUsesDemoContent(t *testing.T) {
	out, err := execute(t, "fmt.Println(1)",
		"explain", "--language", "go", "--level", "beginner", "--server", "http://127.0.0.1:1")
	require.NoError(t, err)
	assert.Contains(t, out, client.DemoModeMessage)
}

func TestExplain_ValidationFailure(t *testing.T) {
	out, err := execute(t, "",
		"explain", "--language", "go", "--level", "beginner", "--server", "http://127.0.0.1:1")
	require.ErrorIs(t, err, errRequestFailed)
	assert.Contains(t, out, "code:")
}

func TestRegisterThenWhoami(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "cli-secret"
	app, err := control.NewApp(context.Background(), cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	yaml := "client:\n  session_file: " + filepath.Join(dir, "session.json") + "\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(yaml), 0o600))

	out, err := run(t, "", "register", "--config", cfgFile, "--server", srv.URL,
		"--name", "Ada", "--email", "ada@example.com", "--password", "secret1", "--level", "advanced")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada")

	out, err = run(t, "", "whoami", "--config", cfgFile, "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "advanced")
	assert.NotContains(t, out, client.DemoModeMessage)

	out, err = run(t, "", "logout", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = run(t, "", "whoami", "--config", cfgFile, "--server", srv.URL)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	failed := orchestrator.Result[string]{
		Source: orchestrator.Remote,
		Err: &classify.Error{
			UserMessage: "Please fix the highlighted fields",
			FieldErrors: map[string]string{"language": "language is required", "code": "code is required"},
		},
	}
	err := show(&buf, failed, printText)
	assert.ErrorIs(t, err, errRequestFailed)
	assert.Equal(t, "[error] Please fix the highlighted fields\n  code: code is required\n  language: language is required\n", buf.String())

	buf.Reset()
	require.NoError(t, show(&buf, orchestrator.Result[string]{Data: "  hello \n"}, printText))
	assert.Equal(t, "hello\n", buf.String())
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	printPlan(&buf, nil)
	assert.Contains(t, buf.String(), "No learning plan yet")

	buf.Reset()
	p := &domain.Plan{Goal: "Learn Go", Progress: 50, Weeks: []domain.Week{
		{WeekNumber: 1, Topics: []string{"syntax"}, EstimatedHours: 5, Completed: true},
		{WeekNumber: 2, Topics: []string{"goroutines", "channels"}, EstimatedHours: 6},
	}}
	printPlan(&buf, p)
	out := buf.String()
	assert.Contains(t, out, "progress: 50% (1/2 weeks)")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "goroutines, channels")
}

func TestPrintPlanTable(t *testing.T) {
	var buf bytes.Buffer
	printPlanTable(&buf, []*domain.Plan{{
		ID: "p1", UserID: "u1", Goal: strings.Repeat("g", 60), Progress: 0,
		Weeks: []domain.Week{{WeekNumber: 1}}, UpdatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}})
	out := buf.String()
	assert.Contains(t, out, "PLAN")
	assert.Contains(t, out, "0/1")
	assert.Contains(t, out, "2026-01-02 03:04")
	assert.Contains(t, out, "…")
}

func TestReadSource(t *testing.T) {
	got, err := readSource(nil, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main"), 0o600))
	got, err = readSource([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "package main", got)

	_, err = readSource([]string{filepath.Join(t.TempDir(), "missing.go")}, nil)
	assert.Error(t, err)
}

func TestLanguageFromPath(t *testing.T) {
	assert.Equal(t, "go", languageFromPath("cmd/main.go"))
	assert.Equal(t, "typescript", languageFromPath("App.TSX"))
	assert.Equal(t, "", languageFromPath("Makefile"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("info", true))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN", false))
	assert.Equal(t, slog.LevelInfo, parseLevel("", false))
}

func TestRotatingLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codementor.log")
	log := newJSONLogger(rotatingWriter(config.LoggingConfig{File: path, MaxSizeMB: 1}), slog.LevelInfo)
	log.Info("hello", "k", "v")
	log.Debug("hidden")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.NotContains(t, string(b), "hidden")
}
