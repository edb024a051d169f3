package domain

import "errors"

// Errors that abort a request. Per-item transcription and model-parse
// failures are deliberately absent: those are swallowed inside the batches
// and the pipeline continues in degraded form.
var (
	// ErrMediaProbe means ffprobe could not determine a usable duration.
	ErrMediaProbe = errors.New("media probe failed")

	// ErrSegmentation means the segmenting re-encode failed. Chunking is a
	// prerequisite for everything downstream, so this is fatal.
	ErrSegmentation = errors.New("audio segmentation failed")

	// ErrNoFileProvided means the upload had no audio file.
	ErrNoFileProvided = errors.New("no audio file provided")

	// ErrNoSpeechDetected means the merged transcript was empty.
	ErrNoSpeechDetected = errors.New("no speech detected in audio")
)
