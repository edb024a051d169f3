// Package export writes processed lecture results as docx study sheets.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// DocxExporter writes one .docx file per processed result into a directory.
type DocxExporter struct {
	dir    string
	logger logger.Logger
}

// NewDocx creates a DocxExporter writing into dir.
func NewDocx(dir string, log logger.Logger) *DocxExporter {
	return &DocxExporter{dir: dir, logger: log}
}

// Export writes the result as lecture-<id>.docx with sections for summary,
// topic notes and exam questions.
func (e *DocxExporter) Export(ctx context.Context, id int, result domain.LectureResult) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addHeading(doc, fmt.Sprintf("Lecture %d — Study Sheet", id), 16)

	addHeading(doc, "Summary", 15)
	addBody(doc, result.Summary)

	if len(result.Notes) > 0 {
		addHeading(doc, "Topic Notes", 15)
		for _, section := range result.Notes {
			addHeading(doc, section.Heading, 14)
			for _, point := range section.Points {
				addBody(doc, "• "+point)
			}
		}
	}

	if len(result.QAPairs) > 0 {
		addHeading(doc, "Exam Questions", 15)
		for i, qa := range result.QAPairs {
			addBold(doc, fmt.Sprintf("Q%d (%d marks): %s", i+1, qa.Marks, qa.Question))
			addBody(doc, qa.Answer)
		}
	}

	addHeading(doc, "Full Transcription", 15)
	addBody(doc, result.Transcription)

	path := filepath.Join(e.dir, fmt.Sprintf("lecture-%d.docx", id))
	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	e.logger.Info(ctx, "Exported study sheet: %s", path)
	return nil
}

func addHeading(doc *docx.RootDoc, text string, size uint64) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(fontName).Size(size).Color("000000").Bold(true)
}

func addBold(doc *docx.RootDoc, text string) {
	p := doc.AddParagraph("")
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000").Bold(true)
}

func addBody(doc *docx.RootDoc, text string) {
	if text == "" {
		return
	}
	p := doc.AddParagraph("")
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}
