package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vietddude/codementor/internal/client"
	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/kv"
	"github.com/vietddude/codementor/internal/llm"
)

// newClient opens the persisted session and builds an API client on it.
func newClient(ctx context.Context) (*client.Client, error) {
	store := kv.NewFileStore(appCfg.Client.SessionFile)
	session, err := client.LoadSession(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return client.New(appCfg.Client, session,
		client.WithTokenCounter(llm.NewTokenCounter().Count),
	), nil
}

// readSource reads code from a file argument, or stdin for "-" or no argument.
func readSource(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}

// languageFromPath guesses a language name from a file extension.
func languageFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	switch strings.ToLower(path[i+1:]) {
	case "go":
		return "go"
	case "js", "mjs", "cjs":
		return "javascript"
	case "ts", "tsx":
		return "typescript"
	case "py":
		return "python"
	case "java":
		return "java"
	case "rs":
		return "rust"
	case "c", "h":
		return "c"
	case "cpp", "cc", "hpp":
		return "cpp"
	case "rb":
		return "ruby"
	default:
		return ""
	}
}

func envPassword() string {
	return os.Getenv("CODEMENTOR_PASSWORD")
}

func levelOrDefault(s string, sess *client.Session) domain.Level {
	if s != "" {
		return domain.ParseLevel(s)
	}
	if u := sess.User(); u != nil && u.ExperienceLevel != "" {
		return u.ExperienceLevel
	}
	return domain.ParseLevel("")
}
