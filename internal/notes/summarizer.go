package notes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/llm"
	"github.com/studyflow-ai/studyflow/internal/logger"
	"github.com/studyflow-ai/studyflow/internal/textchunk"
	"github.com/studyflow-ai/studyflow/pkg/jsonx"
)

// Every prompt demands English-only output because lecture recordings are
// often mixed-language. This is a prompt-level contract; downstream code does
// not assume the model obeys perfectly.
const structurePrompt = `You are an expert study assistant. Based on the lecture transcript below, produce a JSON object with exactly these fields:
- "summary": a clear prose summary of the lecture
- "notes": an array of {"heading": string, "points": [string]} covering every major topic in order of appearance

Rules:
- Respond in ENGLISH ONLY, even if the transcript mixes languages.
- Respond with ONLY the JSON object, no surrounding text.

Transcript:
---
%s
---`

const miniSummaryPrompt = `Condense the following lecture transcript excerpt into a 100-150 word summary that preserves every key concept, definition and example. Respond in ENGLISH ONLY, even if the excerpt mixes languages. Respond with plain text, no headings.

Excerpt:
---
%s
---`

// Summarizer turns a merged transcript into a summary plus structured notes.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*domain.PartialSummary, error)
}

type implSummarizer struct {
	client      llm.Client
	cfg         config.PipelineConfig
	batchDelay  time.Duration
	callTimeout time.Duration
	logger      logger.Logger
}

// New creates a Summarizer using the given language-model client.
func New(client llm.Client, cfg config.PipelineConfig, log logger.Logger) Summarizer {
	return &implSummarizer{
		client:      client,
		cfg:         cfg,
		batchDelay:  time.Duration(cfg.BatchDelaySeconds) * time.Second,
		callTimeout: time.Duration(cfg.CallTimeoutSeconds) * time.Second,
		logger:      log,
	}
}

// Summarize picks a strategy by transcript length. Short transcripts get one
// structuring call. Long transcripts are chunked, each chunk condensed to a
// mini-summary in concurrent batches, and the ordered concatenation gets the
// final structuring call.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (*domain.PartialSummary, error) {
	if textchunk.WordCount(transcript) <= s.cfg.WordThreshold {
		s.logger.Debug(ctx, "Transcript under threshold, single structuring call")
		return s.structure(ctx, transcript)
	}

	chunks := textchunk.Split(transcript, s.cfg.ChunkWords)
	s.logger.Info(ctx, "Long transcript: summarizing %d chunks", len(chunks))

	miniSummaries := s.summarizeChunks(ctx, chunks)

	var kept []string
	for _, m := range miniSummaries {
		if m != "" {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("all %d chunk summarizations failed", len(chunks))
	}

	return s.structure(ctx, strings.Join(kept, " "))
}

// summarizeChunks runs mini-summary calls in fixed-size concurrent batches
// with a throttling delay between batches. A failed or unparseable call
// yields an empty string for that chunk and never aborts the batch.
func (s *implSummarizer) summarizeChunks(ctx context.Context, chunks []domain.TranscriptChunk) []string {
	results := make([]string, len(chunks))

	for start := 0; start < len(chunks); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		var wg sync.WaitGroup
		for _, chunk := range chunks[start:end] {
			wg.Add(1)
			go func(chunk domain.TranscriptChunk) {
				defer wg.Done()
				results[chunk.Index] = s.miniSummary(ctx, chunk)
			}(chunk)
		}
		wg.Wait()

		if end < len(chunks) {
			time.Sleep(s.batchDelay)
		}
	}

	return results
}

func (s *implSummarizer) miniSummary(ctx context.Context, chunk domain.TranscriptChunk) string {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	text, err := s.client.Generate(callCtx, fmt.Sprintf(miniSummaryPrompt, chunk.Text))
	if err != nil {
		s.logger.Warn(ctx, "Chunk %d mini-summary failed: %v", chunk.Index, err)
		return ""
	}
	return strings.TrimSpace(text)
}

// structure issues the final structuring call and parses the embedded JSON
// object out of the response.
func (s *implSummarizer) structure(ctx context.Context, text string) (*domain.PartialSummary, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	response, err := s.client.Generate(callCtx, fmt.Sprintf(structurePrompt, text))
	if err != nil {
		return nil, fmt.Errorf("structuring call: %w", err)
	}

	var partial domain.PartialSummary
	if err := jsonx.ExtractObject(response, &partial); err != nil {
		return nil, fmt.Errorf("parse structuring response: %w", err)
	}

	return &partial, nil
}

// MergePartials concatenates partial summaries in ordinal order: summary text
// is space-joined, note sections are appended. Nil partials contribute
// nothing.
func MergePartials(partials []*domain.PartialSummary) domain.PartialSummary {
	var merged domain.PartialSummary
	var texts []string
	for _, p := range partials {
		if p == nil {
			continue
		}
		if t := strings.TrimSpace(p.Summary); t != "" {
			texts = append(texts, t)
		}
		merged.Notes = append(merged.Notes, p.Notes...)
	}
	merged.Summary = strings.Join(texts, " ")
	return merged
}
