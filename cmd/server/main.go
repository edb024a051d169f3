package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/studyflow-ai/studyflow/internal/api"
	"github.com/studyflow-ai/studyflow/internal/audio"
	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/export"
	"github.com/studyflow-ai/studyflow/internal/llm"
	"github.com/studyflow-ai/studyflow/internal/logger"
	"github.com/studyflow-ai/studyflow/internal/notes"
	"github.com/studyflow-ai/studyflow/internal/pipeline"
	"github.com/studyflow-ai/studyflow/internal/questions"
	"github.com/studyflow-ai/studyflow/internal/store"
	"github.com/studyflow-ai/studyflow/internal/transcribe"
	"github.com/studyflow-ai/studyflow/internal/watcher"
	"github.com/studyflow-ai/studyflow/pkg/executor"
)

func main() {
	ctx := context.Background()

	// Secrets come from the environment; .env is optional.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if url := os.Getenv("WHISPER_URL"); url != "" {
		cfg.Whisper.URL = url
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "StudyFlow lecture pipeline starting")
	log.Info(ctx, "Whisper: %s, Gemini model: %s", cfg.Whisper.URL, cfg.Gemini.Model)

	apiKeys := splitKeys(os.Getenv("GEMINI_API_KEYS"))
	llmClient, err := llm.NewGemini(apiKeys, cfg.Gemini.Model, log)
	if err != nil {
		log.Error(ctx, "Failed to create Gemini client: %v", err)
		os.Exit(1)
	}

	// Wire the pipeline stages.
	exec := executor.New()
	splitter := audio.New(cfg.Audio, exec, log)
	transcriber := transcribe.NewClient(cfg.Whisper, &http.Client{})
	batcher := transcribe.NewBatcher(transcriber, cfg.Pipeline, log)
	summarizer := notes.New(llmClient, cfg.Pipeline, log)
	generator := questions.New(llmClient, cfg.Pipeline, log)
	results := store.New()

	var exporter pipeline.Exporter
	if cfg.Export.Dir != "" {
		exporter = export.NewDocx(cfg.Export.Dir, log)
	}

	pipe := pipeline.New(splitter, batcher, summarizer, generator, results, exporter, log)
	server := api.NewServer(cfg, pipe, results, log)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Handler(),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		log.Info(ctx, "HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	if cfg.Watch.Enabled {
		if err := os.MkdirAll(cfg.Watch.Dir, 0755); err != nil {
			log.Error(ctx, "Failed to create watch dir: %v", err)
			os.Exit(1)
		}
		w, err := watcher.New(cfg.Watch.Dir, func(ctx context.Context, audioPath string) error {
			_, id, err := pipe.Process(ctx, pipeline.Request{
				AudioPath: audioPath,
				Mode:      domain.ModeTheory,
				Marks:     cfg.Marks.Defaults,
			})
			if err != nil {
				return err
			}
			log.Info(ctx, "Processed %s as result %d", audioPath, id)
			return nil
		}, log, cfg.Watch.MaxConcurrent)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- err
			}
		}()
		log.Info(ctx, "Watching %s for recordings", cfg.Watch.Dir)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "HTTP shutdown error: %v", err)
	}

	log.Info(ctx, "StudyFlow stopped")
}

// splitKeys parses a comma-separated key list from the environment.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
