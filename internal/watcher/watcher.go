// Package watcher feeds audio files dropped into a directory through the
// lecture pipeline.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/studyflow-ai/studyflow/internal/logger"
)

// Handler processes one discovered audio file.
type Handler func(ctx context.Context, audioPath string) error

// Watcher monitors a directory for new lecture recordings.
type Watcher struct {
	inputDir  string
	handler   Handler
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher over inputDir with at most maxConcurrent recordings
// processed at once.
func New(inputDir string, handler Handler, log logger.Logger, maxConcurrent int) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(inputDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}

	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		logger:    log,
		watcher:   fw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks processing create events until ctx is cancelled. In-flight
// recordings are waited for on shutdown.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s for new recordings", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for in-flight recordings to finish")
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)

			// Small delay so the file is fully written before processing.
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.handler(ctx, path); err != nil {
						w.logger.Error(ctx, "Failed to process %s: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying fsnotify watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	supported := []string{".mp3", ".wav", ".m4a", ".aac", ".ogg", ".flac", ".webm"}

	for _, s := range supported {
		if ext == s {
			return true
		}
	}
	return false
}
