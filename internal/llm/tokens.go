package llm

import (
	"log/slog"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter counts model tokens in a prompt body.
type TokenCounter struct {
	enc tokenizer.Codec
}

// NewTokenCounter loads the cl100k_base encoding. When it cannot be loaded
// the counter estimates four characters per token.
func NewTokenCounter() *TokenCounter {
	enc, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		slog.Warn("Tokenizer unavailable, estimating token counts", "error", err)
		return &TokenCounter{}
	}
	return &TokenCounter{enc: enc}
}

// Count returns the number of tokens in s.
func (t *TokenCounter) Count(s string) int {
	if t != nil && t.enc != nil {
		if ids, _, err := t.enc.Encode(s); err == nil {
			return len(ids)
		}
	}
	return (utf8.RuneCountInString(s) + 3) / 4
}
