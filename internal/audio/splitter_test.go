package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
)

// fakeExecutor simulates ffprobe/ffmpeg. For segmenting invocations it writes
// one fake WAV file per expected chunk so Split can read them back.
type fakeExecutor struct {
	duration    string
	probeErr    error
	ffmpegErr   error
	numSegments int
	calls       []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name)
	switch name {
	case "ffprobe":
		if f.probeErr != nil {
			return "", f.probeErr
		}
		return f.duration + "\n", nil
	case "ffmpeg":
		if f.ffmpegErr != nil {
			return "", f.ffmpegErr
		}
		target := args[len(args)-1]
		if strings.Contains(target, "%03d") {
			for i := 0; i < f.numSegments; i++ {
				path := fmt.Sprintf(target, i)
				if err := os.WriteFile(path, []byte(fmt.Sprintf("wav-%d", i)), 0644); err != nil {
					return "", err
				}
			}
			return "", nil
		}
		return "", os.WriteFile(target, []byte("wav-whole"), 0644)
	}
	return "", fmt.Errorf("unexpected command %s", name)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func newSplitter(exec *fakeExecutor) Splitter {
	cfg := config.AudioConfig{ChunkSeconds: 180, SampleRate: 16000}
	return New(cfg, exec, logger.Nop())
}

func TestSplitShortRecording(t *testing.T) {
	exec := &fakeExecutor{duration: "120.5"}
	segments, err := newSplitter(exec).Split(context.Background(), "lecture.mp3")
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Index != 0 {
		t.Errorf("Index = %d, want 0", segments[0].Index)
	}
	if string(segments[0].Data) != "wav-whole" {
		t.Errorf("Data = %q", segments[0].Data)
	}
}

func TestSplitLongRecording(t *testing.T) {
	// 10 minutes with 180s chunks -> 4 segments, last one the remainder.
	exec := &fakeExecutor{duration: "600.0", numSegments: 4}
	segments, err := newSplitter(exec).Split(context.Background(), "lecture.mp3")
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if len(segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(segments))
	}
	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d has Index %d", i, seg.Index)
		}
		if want := fmt.Sprintf("wav-%d", i); string(seg.Data) != want {
			t.Errorf("segment %d Data = %q, want %q", i, seg.Data, want)
		}
	}
}

func TestSplitProbeFailures(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"ffprobe fails", &fakeExecutor{probeErr: errors.New("exit status 1")}},
		{"unparseable duration", &fakeExecutor{duration: "N/A"}},
		{"zero duration", &fakeExecutor{duration: "0.0"}},
		{"negative duration", &fakeExecutor{duration: "-3.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSplitter(tt.exec).Split(context.Background(), "lecture.mp3")
			if !errors.Is(err, domain.ErrMediaProbe) {
				t.Errorf("Split() error = %v, want ErrMediaProbe", err)
			}
		})
	}
}

func TestSplitSegmentationFailure(t *testing.T) {
	exec := &fakeExecutor{duration: "600.0", ffmpegErr: errors.New("exit status 1")}
	_, err := newSplitter(exec).Split(context.Background(), "lecture.mp3")
	if !errors.Is(err, domain.ErrSegmentation) {
		t.Errorf("Split() error = %v, want ErrSegmentation", err)
	}
}

func TestSplitNoChunksProduced(t *testing.T) {
	exec := &fakeExecutor{duration: "600.0", numSegments: 0}
	_, err := newSplitter(exec).Split(context.Background(), "lecture.mp3")
	if !errors.Is(err, domain.ErrSegmentation) {
		t.Errorf("Split() error = %v, want ErrSegmentation", err)
	}
}

func TestSplitCleansTempDir(t *testing.T) {
	exec := &fakeExecutor{duration: "600.0", numSegments: 2}
	if _, err := newSplitter(exec).Split(context.Background(), "lecture.mp3"); err != nil {
		t.Fatalf("Split() error: %v", err)
	}

	pattern := filepath.Join(os.TempDir(), "audiosplit-*")
	leftovers, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp dirs left behind: %v", leftovers)
	}
}
