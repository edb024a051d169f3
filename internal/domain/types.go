package domain

// AudioSegment is a bounded-duration slice of the original recording.
// Index establishes reassembly order; Data is WAV-encoded 16kHz mono audio.
type AudioSegment struct {
	Index int
	Data  []byte
}

// TranscriptChunk is a sentence-aligned slice of a transcript, bounded by a
// target word count. Index preserves the original ordering.
type TranscriptChunk struct {
	Index int
	Text  string
}

// NoteSection is one heading with its bullet points.
type NoteSection struct {
	Heading string   `json:"heading"`
	Points  []string `json:"points"`
}

// PartialSummary is the structured result of a single summarization call.
// Partials for one request are merged in chunk order: summary text is
// space-joined, note sections are concatenated.
type PartialSummary struct {
	Summary string        `json:"summary"`
	Notes   []NoteSection `json:"notes"`
}

// QAPair is a generated exam question with its marks weight. Marks is
// guaranteed by the question generator to belong to the requested marks set.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Marks    int    `json:"marks"`
}

// LectureResult is the final aggregate for one processed recording. It is
// constructed once, persisted, returned to the caller and never mutated.
type LectureResult struct {
	Transcription string        `json:"transcription"`
	Summary       string        `json:"summary"`
	Notes         []NoteSection `json:"structuredNotes"`
	QAPairs       []QAPair      `json:"qaPairs"`
}

// Question generation modes.
const (
	ModeTheory    = "theory"
	ModeNumerical = "numerical"
)
