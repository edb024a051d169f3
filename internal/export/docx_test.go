package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
)

func sampleResult() domain.LectureResult {
	return domain.LectureResult{
		Transcription: "full transcript text",
		Summary:       "the summary",
		Notes: []domain.NoteSection{
			{Heading: "Photosynthesis", Points: []string{"light reactions", "calvin cycle"}},
		},
		QAPairs: []domain.QAPair{
			{Question: "Define osmosis.", Answer: "Movement of water.", Marks: 2},
		},
	}
}

func TestExportWritesDocx(t *testing.T) {
	dir := t.TempDir()
	e := NewDocx(dir, logger.Nop())

	if err := e.Export(context.Background(), 7, sampleResult()); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	path := filepath.Join(dir, "lecture-7.docx")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Error("exported file is empty")
	}
}

func TestExportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	e := NewDocx(dir, logger.Nop())

	if err := e.Export(context.Background(), 1, sampleResult()); err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "lecture-1.docx")); err != nil {
		t.Errorf("file missing: %v", err)
	}
}

func TestExportMinimalResult(t *testing.T) {
	// Fallback results have empty notes and questions; export must still work.
	e := NewDocx(t.TempDir(), logger.Nop())
	result := domain.LectureResult{
		Transcription: "only a transcript",
		Summary:       "placeholder",
		Notes:         []domain.NoteSection{},
		QAPairs:       []domain.QAPair{},
	}
	if err := e.Export(context.Background(), 2, result); err != nil {
		t.Errorf("Export() error: %v", err)
	}
}
