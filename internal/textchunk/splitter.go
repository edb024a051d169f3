// Package textchunk splits long transcripts into sentence-aligned spans
// bounded by a target word count.
package textchunk

import (
	"strings"

	"github.com/studyflow-ai/studyflow/internal/domain"
)

// Split cuts text into chunks of roughly targetWords words each, never
// breaking mid-sentence and never producing an empty chunk. Sentences are
// accumulated greedily: a chunk is closed when adding the next sentence would
// exceed the target and the chunk already has content. Joining the chunks in
// order with single spaces reproduces the original sentence sequence.
func Split(text string, targetWords int) []domain.TranscriptChunk {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []domain.TranscriptChunk
	var current []string
	currentWords := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, domain.TranscriptChunk{
			Index: len(chunks),
			Text:  strings.Join(current, " "),
		})
		current = nil
		currentWords = 0
	}

	for _, sentence := range sentences {
		words := len(strings.Fields(sentence))
		if currentWords+words > targetWords && currentWords > 0 {
			flush()
		}
		current = append(current, sentence)
		currentWords += words
	}
	flush()

	return chunks
}

// Sentences tokenizes text into sentences on terminal punctuation (. ! ?).
// A trailing fragment without terminal punctuation counts as a sentence.
// Whitespace is normalized to single spaces inside each sentence.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.Join(strings.Fields(current.String()), " ")
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
