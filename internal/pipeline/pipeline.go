// Package pipeline sequences audio splitting, transcription, summarization
// and question generation into one lecture-processing flow.
package pipeline

import (
	"context"
	"fmt"

	"github.com/studyflow-ai/studyflow/internal/audio"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
	"github.com/studyflow-ai/studyflow/internal/notes"
	"github.com/studyflow-ai/studyflow/internal/questions"
	"github.com/studyflow-ai/studyflow/internal/store"
	"github.com/studyflow-ai/studyflow/internal/transcribe"
)

// Stage names a step in the per-request state machine.
type Stage string

const (
	StageReceived            Stage = "received"
	StageSplitting           Stage = "splitting"
	StageTranscribing        Stage = "transcribing"
	StageSummarizing         Stage = "summarizing"
	StageGeneratingQuestions Stage = "generating_questions"
	StageAggregated          Stage = "aggregated"
	StageDelivered           Stage = "delivered"
	StageFallback            Stage = "fallback"
)

// FallbackSummary fills the summary field when the AI stages collapse but
// transcription succeeded.
const FallbackSummary = "Automatic summarization was unavailable for this recording. The full transcription is included above."

// Transcriber is the batched transcription dependency.
type Transcriber interface {
	TranscribeAll(ctx context.Context, segments []domain.AudioSegment) []string
}

// Exporter persists a result outside the process, e.g. as a docx study
// sheet. Export failures are logged and never fail the request.
type Exporter interface {
	Export(ctx context.Context, id int, result domain.LectureResult) error
}

// Request is one lecture-processing request with validated parameters.
type Request struct {
	AudioPath string
	Mode      string
	Marks     []int
}

// Pipeline orchestrates one request end to end.
type Pipeline struct {
	splitter   audio.Splitter
	batcher    Transcriber
	summarizer notes.Summarizer
	generator  questions.Generator
	store      *store.Store
	exporter   Exporter
	logger     logger.Logger
}

// New wires the pipeline's stage dependencies. exporter may be nil.
func New(splitter audio.Splitter, batcher Transcriber, summarizer notes.Summarizer, generator questions.Generator, st *store.Store, exporter Exporter, log logger.Logger) *Pipeline {
	return &Pipeline{
		splitter:   splitter,
		batcher:    batcher,
		summarizer: summarizer,
		generator:  generator,
		store:      st,
		exporter:   exporter,
		logger:     log,
	}
}

// Process runs Received -> Splitting -> Transcribing -> Summarizing ->
// GeneratingQuestions -> Aggregated -> Delivered|Fallback. Splitting and
// transcription failures abort the request; once a non-empty transcript
// exists, every later stage is best-effort and a failure degrades the result
// instead of discarding the transcription. No stage is retried.
func (p *Pipeline) Process(ctx context.Context, req Request) (domain.LectureResult, int, error) {
	p.stage(ctx, StageReceived)

	p.stage(ctx, StageSplitting)
	segments, err := p.splitter.Split(ctx, req.AudioPath)
	if err != nil {
		return domain.LectureResult{}, 0, fmt.Errorf("split audio: %w", err)
	}

	p.stage(ctx, StageTranscribing)
	transcript := transcribe.Merge(p.batcher.TranscribeAll(ctx, segments))
	if transcript == "" {
		return domain.LectureResult{}, 0, domain.ErrNoSpeechDetected
	}

	p.stage(ctx, StageSummarizing)
	partial, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		p.logger.Error(ctx, "Summarization failed, delivering transcription-only fallback: %v", err)
		return p.deliver(ctx, fallbackResult(transcript), StageFallback)
	}

	p.stage(ctx, StageGeneratingQuestions)
	qaPairs := p.generator.Generate(ctx, partial.Summary, req.Marks, req.Mode)

	p.stage(ctx, StageAggregated)
	result := domain.LectureResult{
		Transcription: transcript,
		Summary:       partial.Summary,
		Notes:         partial.Notes,
		QAPairs:       qaPairs,
	}
	if result.Notes == nil {
		result.Notes = []domain.NoteSection{}
	}
	if result.QAPairs == nil {
		result.QAPairs = []domain.QAPair{}
	}

	return p.deliver(ctx, result, StageDelivered)
}

func (p *Pipeline) deliver(ctx context.Context, result domain.LectureResult, final Stage) (domain.LectureResult, int, error) {
	id := p.store.Insert(result)

	if p.exporter != nil {
		if err := p.exporter.Export(ctx, id, result); err != nil {
			p.logger.Warn(ctx, "Export of result %d failed: %v", id, err)
		}
	}

	p.stage(ctx, final)
	return result, id, nil
}

func (p *Pipeline) stage(ctx context.Context, s Stage) {
	p.logger.Info(ctx, "Pipeline stage: %s", s)
}

// fallbackResult keeps the real transcription with a well-formed placeholder
// study section.
func fallbackResult(transcript string) domain.LectureResult {
	return domain.LectureResult{
		Transcription: transcript,
		Summary:       FallbackSummary,
		Notes:         []domain.NoteSection{},
		QAPairs:       []domain.QAPair{},
	}
}
