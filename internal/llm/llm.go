// Package llm provides the language-model client used for summarization and
// question generation.
package llm

import "context"

// Client sends one text prompt to a language model and returns its free-text
// response. Responses are expected, not guaranteed, to contain JSON; callers
// parse defensively.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
