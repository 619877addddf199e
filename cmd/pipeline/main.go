package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/job"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
	"github.com/nguyentantai21042004/title-flow/internal/media"
	"github.com/nguyentantai21042004/title-flow/internal/report"
	"github.com/nguyentantai21042004/title-flow/internal/store"
	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
	"github.com/nguyentantai21042004/title-flow/internal/trends"
	"github.com/nguyentantai21042004/title-flow/internal/watcher"
	"github.com/nguyentantai21042004/title-flow/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Title Generation Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, %d cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max concurrent jobs: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	jobStore, err := store.New(cfg.Database.Path)
	if err != nil {
		log.Error(ctx, "Failed to open job store: %v", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	exec := executor.New()
	extractor := media.New(cfg.FFmpeg, cfg.Transcription, exec, log)
	gateway := transcribe.NewGateway(cfg.Transcription, log)
	transcriber := transcribe.New(cfg.Transcription, gateway, extractor, log)

	trendCache := trends.NewCache(time.Duration(cfg.Trends.CacheTTLSec) * time.Second)
	aggregator := trends.NewAggregator(
		[]trends.Source{
			trends.NewGoogleSource(cfg.Trends.Google),
			trends.NewYouTubeSource(cfg.Trends.YouTube),
			trends.NewRedditSource(cfg.Trends.Reddit),
		},
		trendCache,
		time.Duration(cfg.Trends.SourceTimeoutSec)*time.Second,
		cfg.Trends.MaxKeywords,
		log,
	)

	generator := titles.New(cfg.Titles, log)

	var reporter report.Writer
	if cfg.Report.Enabled {
		reporter = report.New(cfg.Report, log)
	}

	orchestrator := job.New(cfg, extractor, transcriber, aggregator, generator, jobStore, reporter, log)

	submit := func(ctx context.Context, videoPath string) error {
		_, err := orchestrator.Process(ctx, videoPath)
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, submit, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Pipeline is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Target platform: %s", cfg.Titles.Platform)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Pipeline stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Work,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
