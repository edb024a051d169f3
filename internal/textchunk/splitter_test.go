package textchunk

import (
	"fmt"
	"strings"
	"testing"
)

// sentence builds a sentence with exactly n words.
func sentence(n int, id int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d_%d", id, i)
	}
	return strings.Join(words, " ") + "."
}

func TestSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "terminal punctuation variants",
			input: "First one. Second one! Third one?",
			want:  []string{"First one.", "Second one!", "Third one?"},
		},
		{
			name:  "trailing fragment without punctuation",
			input: "Complete sentence. trailing fragment",
			want:  []string{"Complete sentence.", "trailing fragment"},
		},
		{
			name:  "whitespace normalized",
			input: "Spread   over\n\nlines.  Next.",
			want:  []string{"Spread over lines.", "Next."},
		},
		{
			name:  "empty input",
			input: "   \n ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sentences(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Sentences() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Sentences()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplit1500WordsInto3Chunks(t *testing.T) {
	// 15 sentences of 100 words, target 600 -> chunks of 600/600/300 words.
	var sb strings.Builder
	for i := 0; i < 15; i++ {
		sb.WriteString(sentence(100, i))
		sb.WriteString(" ")
	}

	chunks := Split(sb.String(), 600)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has Index %d", i, c.Index)
		}
		if c.Text == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", i, c.Text[len(c.Text)-20:])
		}
	}
	if got := WordCount(chunks[0].Text); got != 600 {
		t.Errorf("chunk 0 words = %d, want 600", got)
	}
	if got := WordCount(chunks[2].Text); got != 300 {
		t.Errorf("chunk 2 words = %d, want 300", got)
	}
}

func TestSplitRejoinsToOriginalSentences(t *testing.T) {
	input := "Alpha beta gamma. Delta epsilon! Zeta eta theta iota? Kappa lambda. Mu nu xi omicron pi."
	chunks := Split(input, 5)

	var joined []string
	for _, c := range chunks {
		joined = append(joined, c.Text)
	}
	rejoined := strings.Join(joined, " ")

	want := strings.Join(Sentences(input), " ")
	if rejoined != want {
		t.Errorf("rejoined = %q, want %q", rejoined, want)
	}
}

func TestSplitOversizedSingleSentence(t *testing.T) {
	// A sentence longer than the target still becomes its own chunk rather
	// than being broken mid-sentence.
	input := sentence(50, 0) + " " + sentence(3, 1)
	chunks := Split(input, 10)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if got := WordCount(chunks[0].Text); got != 50 {
		t.Errorf("chunk 0 words = %d, want 50", got)
	}
}

func TestSplitShortText(t *testing.T) {
	chunks := Split("Just one short sentence.", 600)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "Just one short sentence." {
		t.Errorf("chunk = %q", chunks[0].Text)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := Split("", 600); chunks != nil {
		t.Errorf("Split(empty) = %v, want nil", chunks)
	}
}
