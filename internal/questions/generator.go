package questions

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/llm"
	"github.com/studyflow-ai/studyflow/internal/logger"
	"github.com/studyflow-ai/studyflow/pkg/jsonx"
)

const questionPrompt = `You are an examiner preparing %s questions from a lecture summary. Generate exam question/answer pairs as a JSON object with exactly this shape:
{"questions": [{"question": string, "answer": string, "marks": number}]}

Rules:
- The "marks" value of every question MUST be one of: %s. Do not use any other value.
- Generate 2-3 questions per allowed marks value.
- Match answer depth to weight: higher marks need longer, multi-point answers; low marks need one or two sentences.
- Respond in ENGLISH ONLY.
- Respond with ONLY the JSON object, no surrounding text.

Lecture summary:
---
%s
---`

// Generator produces marks-constrained exam question/answer pairs.
type Generator interface {
	Generate(ctx context.Context, summary string, marks []int, mode string) []domain.QAPair
}

type implGenerator struct {
	client      llm.Client
	callTimeout time.Duration
	logger      logger.Logger
}

// New creates a Generator using the given language-model client.
func New(client llm.Client, cfg config.PipelineConfig, log logger.Logger) Generator {
	return &implGenerator{
		client:      client,
		callTimeout: time.Duration(cfg.CallTimeoutSeconds) * time.Second,
		logger:      log,
	}
}

type questionResponse struct {
	Questions []domain.QAPair `json:"questions"`
}

// Generate asks the model for question/answer pairs restricted to the given
// marks values, then enforces that restriction: any pair whose marks value is
// outside the requested set is discarded, because the model is not trusted to
// obey the prompt. Failures yield an empty slice, never an error.
func (g *implGenerator) Generate(ctx context.Context, summary string, marks []int, mode string) []domain.QAPair {
	if mode != domain.ModeNumerical {
		mode = domain.ModeTheory
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	response, err := g.client.Generate(callCtx, fmt.Sprintf(questionPrompt, mode, marksList(marks), summary))
	if err != nil {
		g.logger.Warn(ctx, "Question generation failed: %v", err)
		return nil
	}

	var parsed questionResponse
	if err := jsonx.ExtractObject(response, &parsed); err != nil {
		g.logger.Warn(ctx, "Question response unparseable: %v", err)
		return nil
	}

	return FilterByMarks(parsed.Questions, marks)
}

// FilterByMarks keeps only pairs whose marks value belongs to the allowed
// set. This is the hard safety filter behind the marks invariant.
func FilterByMarks(pairs []domain.QAPair, allowed []int) []domain.QAPair {
	set := make(map[int]bool, len(allowed))
	for _, m := range allowed {
		set[m] = true
	}

	kept := make([]domain.QAPair, 0, len(pairs))
	for _, qa := range pairs {
		if set[qa.Marks] {
			kept = append(kept, qa)
		}
	}
	return kept
}

func marksList(marks []int) string {
	sorted := append([]int(nil), marks...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, m := range sorted {
		parts[i] = fmt.Sprintf("%d", m)
	}
	return strings.Join(parts, ", ")
}

// ValidateMarks normalizes a caller-supplied marks list against the
// configured bounds: out-of-range and duplicate values are dropped, the list
// is truncated to the configured maximum, and an empty result falls back to
// the defaults.
func ValidateMarks(requested []int, cfg config.MarksConfig) []int {
	var valid []int
	seen := make(map[int]bool)
	for _, m := range requested {
		if m < cfg.Min || m > cfg.Max || seen[m] {
			continue
		}
		seen[m] = true
		valid = append(valid, m)
		if len(valid) == cfg.MaxCount {
			break
		}
	}
	if len(valid) == 0 {
		return append([]int(nil), cfg.Defaults...)
	}
	return valid
}
