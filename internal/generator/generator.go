// Package generator wraps the optional text generator consulted for a
// more natural phrasing of an already-computed answer. Its failure modes
// never reach the caller; the synthesizer falls back to templates.
package generator

import (
	"context"
	"strings"
)

// Status classifies one generation attempt.
type Status string

const (
	StatusOK       Status = "ok"
	StatusTimedOut Status = "timed_out"
	StatusRefused  Status = "refused"
	StatusFailed   Status = "failed"
)

// Result is the outcome of one generation call. Text is set only for
// StatusOK, and is then non-empty, long enough and free of refusal
// phrases.
type Result struct {
	Status Status
	Text   string
}

// Generator produces free text from a prompt. Implementations must
// honor context cancellation and never panic on transport failures.
type Generator interface {
	Generate(ctx context.Context, prompt string) Result
}

// refusalSigns mark answers where the model declined instead of
// rephrasing the figures it was given.
var refusalSigns = []string{
	"ne peux pas", "ne peut pas", "i cannot", "i'm sorry",
	"je ne dispose", "je n'ai pas", "impossible",
	"cannot provide", "je ne peux", "unavailable",
}

// Unusable reports whether generated text must be discarded: empty,
// shorter than 10 characters, or containing a refusal phrase.
func Unusable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 10 {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, sign := range refusalSigns {
		if strings.Contains(lower, sign) {
			return true
		}
	}
	return false
}
