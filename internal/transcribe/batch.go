package transcribe

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
)

// Placeholder is substituted for a segment whose transcription failed.
// Dropping failed segments silently would shift everything after them with no
// trace; the marker keeps the merged transcript honest about gaps.
const Placeholder = "[inaudible]"

// Batcher transcribes audio segments in fixed-size concurrent batches.
type Batcher struct {
	transcriber Transcriber
	batchSize   int
	batchDelay  time.Duration
	callTimeout time.Duration
	logger      logger.Logger
}

// NewBatcher creates a Batcher from pipeline config.
func NewBatcher(t Transcriber, cfg config.PipelineConfig, log logger.Logger) *Batcher {
	return &Batcher{
		transcriber: t,
		batchSize:   cfg.BatchSize,
		batchDelay:  time.Duration(cfg.BatchDelaySeconds) * time.Second,
		callTimeout: time.Duration(cfg.CallTimeoutSeconds) * time.Second,
		logger:      log,
	}
}

// TranscribeAll transcribes every segment and returns the per-segment texts
// in ordinal order. Within a batch all requests run concurrently; the batch
// waits for every member before the next starts, with a fixed delay between
// batches as a crude rate limiter. A failed or timed-out segment yields
// Placeholder and never aborts the run.
func (b *Batcher) TranscribeAll(ctx context.Context, segments []domain.AudioSegment) []string {
	texts := make([]string, len(segments))

	for start := 0; start < len(segments); start += b.batchSize {
		end := start + b.batchSize
		if end > len(segments) {
			end = len(segments)
		}

		var wg sync.WaitGroup
		for _, seg := range segments[start:end] {
			wg.Add(1)
			go func(seg domain.AudioSegment) {
				defer wg.Done()
				texts[seg.Index] = b.transcribeOne(ctx, seg)
			}(seg)
		}
		wg.Wait()

		if end < len(segments) {
			b.logger.Debug(ctx, "Batch %d-%d done, throttling %s", start, end-1, b.batchDelay)
			time.Sleep(b.batchDelay)
		}
	}

	return texts
}

func (b *Batcher) transcribeOne(ctx context.Context, seg domain.AudioSegment) string {
	callCtx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	text, err := b.transcriber.Transcribe(callCtx, seg)
	if err != nil {
		b.logger.Warn(ctx, "Segment %d transcription failed, substituting placeholder: %v", seg.Index, err)
		return Placeholder
	}
	return text
}

// Merge joins per-segment texts in ordinal order with single spaces. Empty
// entries contribute nothing but do not break ordering.
func Merge(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
