package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
	"github.com/studyflow-ai/studyflow/pkg/executor"
)

// Splitter cuts a recording into bounded-duration WAV segments ready for
// speech recognition.
type Splitter interface {
	Split(ctx context.Context, audioPath string) ([]domain.AudioSegment, error)
}

type implSplitter struct {
	cfg      config.AudioConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Splitter backed by ffprobe/ffmpeg subprocesses.
func New(cfg config.AudioConfig, exec executor.Executor, log logger.Logger) Splitter {
	return &implSplitter{cfg: cfg, executor: exec, logger: log}
}

// Split probes the recording's duration, then either resamples it whole
// (short recordings) or re-encodes it into fixed-duration segments. Every
// segment comes back as 16kHz mono PCM WAV bytes in chronological order. The
// per-operation temp directory is removed on every exit path.
func (s *implSplitter) Split(ctx context.Context, audioPath string) ([]domain.AudioSegment, error) {
	duration, err := s.probeDuration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "audiosplit-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if duration <= float64(s.cfg.ChunkSeconds) {
		s.logger.Debug(ctx, "Duration %.1fs within chunk size, resampling whole file", duration)
		return s.resampleWhole(ctx, audioPath, tempDir)
	}

	s.logger.Info(ctx, "Duration %.1fs exceeds %ds chunks, segmenting", duration, s.cfg.ChunkSeconds)
	return s.segment(ctx, audioPath, tempDir)
}

// probeDuration asks ffprobe for the container duration in seconds.
func (s *implSplitter) probeDuration(ctx context.Context, audioPath string) (float64, error) {
	out, err := s.executor.Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v", domain.ErrMediaProbe, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable duration %q", domain.ErrMediaProbe, strings.TrimSpace(out))
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%w: non-positive duration %.3f", domain.ErrMediaProbe, duration)
	}

	return duration, nil
}

// resampleWhole converts the whole recording to a single transcription-ready
// WAV buffer.
//
// FFmpeg arguments:
//
//	-vn            drop any video stream
//	-ar 16000      16kHz sample rate (optimal for speech recognition)
//	-ac 1          mono channel
//	-c:a pcm_s16le uncompressed 16-bit PCM
func (s *implSplitter) resampleWhole(ctx context.Context, audioPath, tempDir string) ([]domain.AudioSegment, error) {
	outPath := filepath.Join(tempDir, "chunk_000.wav")

	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", strconv.Itoa(s.cfg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}
	if _, err := s.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return nil, fmt.Errorf("%w: resample: %v", domain.ErrSegmentation, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read resampled output: %v", domain.ErrSegmentation, err)
	}

	return []domain.AudioSegment{{Index: 0, Data: data}}, nil
}

// segment re-encodes the recording into fixed-duration WAV files and reads
// them back in lexicographic (= chronological) filename order.
func (s *implSplitter) segment(ctx context.Context, audioPath, tempDir string) ([]domain.AudioSegment, error) {
	pattern := filepath.Join(tempDir, "chunk_%03d.wav")

	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", strconv.Itoa(s.cfg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-f", "segment",
		"-segment_time", strconv.Itoa(s.cfg.ChunkSeconds),
		"-y",
		pattern,
	}
	if _, err := s.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg segment: %v", domain.ErrSegmentation, err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read segment dir: %v", domain.ErrSegmentation, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".wav") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: segmenting produced no chunks", domain.ErrSegmentation)
	}
	sort.Strings(names)

	segments := make([]domain.AudioSegment, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(tempDir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: read segment %s: %v", domain.ErrSegmentation, name, err)
		}
		segments = append(segments, domain.AudioSegment{Index: i, Data: data})
	}

	s.logger.Info(ctx, "Produced %d audio segments", len(segments))
	return segments, nil
}
