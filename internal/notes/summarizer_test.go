package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
)

type fakeModel struct {
	mu      sync.Mutex
	calls   []string
	respond func(prompt string) (string, error)
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeModel) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() config.PipelineConfig {
	return config.PipelineConfig{
		BatchSize:          5,
		BatchDelaySeconds:  0,
		WordThreshold:      1000,
		ChunkWords:         600,
		CallTimeoutSeconds: 5,
	}
}

// longTranscript builds a transcript of roughly n words out of 10-word sentences.
func longTranscript(n int) string {
	var sb strings.Builder
	for i := 0; i < n/10; i++ {
		sb.WriteString(fmt.Sprintf("this is filler sentence number %d with ten words total. ", i))
	}
	return sb.String()
}

func TestSummarizeShortPath(t *testing.T) {
	fake := &fakeModel{respond: func(prompt string) (string, error) {
		return `Here it is: {"summary": "short lecture", "notes": [{"heading": "Topic", "points": ["a", "b"]}]}`, nil
	}}
	s := New(fake, testConfig(), logger.Nop())

	partial, err := s.Summarize(context.Background(), "A short transcript about one topic.")
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if partial.Summary != "short lecture" {
		t.Errorf("Summary = %q", partial.Summary)
	}
	if len(partial.Notes) != 1 || partial.Notes[0].Heading != "Topic" {
		t.Errorf("Notes = %+v", partial.Notes)
	}
	if fake.callCount() != 1 {
		t.Errorf("calls = %d, want 1 (short path)", fake.callCount())
	}
}

func TestSummarizeShortPathEnglishOnlyInstruction(t *testing.T) {
	fake := &fakeModel{respond: func(prompt string) (string, error) {
		return `{"summary": "s", "notes": []}`, nil
	}}
	s := New(fake, testConfig(), logger.Nop())

	if _, err := s.Summarize(context.Background(), "short text."); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(fake.calls[0], "ENGLISH ONLY") {
		t.Error("structuring prompt missing English-only instruction")
	}
}

func TestSummarizeLongPath(t *testing.T) {
	fake := &fakeModel{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Condense") {
			return "mini summary of one chunk", nil
		}
		return `{"summary": "full lecture", "notes": [{"heading": "H", "points": ["p"]}]}`, nil
	}}
	s := New(fake, testConfig(), logger.Nop())

	partial, err := s.Summarize(context.Background(), longTranscript(1500))
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if partial.Summary != "full lecture" {
		t.Errorf("Summary = %q", partial.Summary)
	}

	// 1500 words at 600-word chunks -> 3 mini-summary calls + 1 structuring call.
	if fake.callCount() != 4 {
		t.Errorf("calls = %d, want 4", fake.callCount())
	}
	var minis int
	for _, p := range fake.calls {
		if strings.Contains(p, "Condense") {
			minis++
			if !strings.Contains(p, "ENGLISH ONLY") {
				t.Error("mini-summary prompt missing English-only instruction")
			}
		}
	}
	if minis != 3 {
		t.Errorf("mini-summary calls = %d, want 3", minis)
	}
}

func TestSummarizeLongPathToleratesChunkFailures(t *testing.T) {
	var n int
	var mu sync.Mutex
	fake := &fakeModel{}
	fake.respond = func(prompt string) (string, error) {
		if strings.Contains(prompt, "Condense") {
			mu.Lock()
			n++
			fail := n == 1
			mu.Unlock()
			if fail {
				return "", errors.New("quota exceeded")
			}
			return "mini summary", nil
		}
		return `{"summary": "degraded but present", "notes": []}`, nil
	}
	s := New(fake, testConfig(), logger.Nop())

	partial, err := s.Summarize(context.Background(), longTranscript(1500))
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if partial.Summary != "degraded but present" {
		t.Errorf("Summary = %q", partial.Summary)
	}
}

func TestSummarizeLongPathAllChunksFail(t *testing.T) {
	fake := &fakeModel{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Condense") {
			return "", errors.New("service down")
		}
		t.Error("structuring call should not happen when every chunk failed")
		return "", nil
	}}
	s := New(fake, testConfig(), logger.Nop())

	if _, err := s.Summarize(context.Background(), longTranscript(1500)); err == nil {
		t.Error("Summarize() expected error when all chunks fail")
	}
}

func TestSummarizeUnparseableStructuringResponse(t *testing.T) {
	fake := &fakeModel{respond: func(prompt string) (string, error) {
		return "I could not produce JSON, sorry.", nil
	}}
	s := New(fake, testConfig(), logger.Nop())

	if _, err := s.Summarize(context.Background(), "short text."); err == nil {
		t.Error("Summarize() expected error for unparseable response")
	}
}

func TestMergePartials(t *testing.T) {
	partials := []*domain.PartialSummary{
		{Summary: "first part", Notes: []domain.NoteSection{{Heading: "A", Points: []string{"1"}}}},
		nil,
		{Summary: " second part ", Notes: []domain.NoteSection{{Heading: "B", Points: []string{"2"}}}},
	}

	merged := MergePartials(partials)
	if merged.Summary != "first part second part" {
		t.Errorf("Summary = %q", merged.Summary)
	}
	if len(merged.Notes) != 2 || merged.Notes[0].Heading != "A" || merged.Notes[1].Heading != "B" {
		t.Errorf("Notes order wrong: %+v", merged.Notes)
	}
}
