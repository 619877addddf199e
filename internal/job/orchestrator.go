package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/title-flow/internal/media"
	"github.com/nguyentantai21042004/title-flow/internal/report"
	"github.com/nguyentantai21042004/title-flow/internal/store"
	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

// Process drives one video through the full pipeline. The job advances
// through the state machine one step at a time, each step inside its own
// wall-clock budget, and the work directory is removed on every exit path.
func (o *implOrchestrator) Process(ctx context.Context, videoPath string) (Outcome, error) {
	jobID := uuid.NewString()
	filename := filepath.Base(videoPath)
	state := StatusPending

	if err := o.store.CreateJob(ctx, store.JobRecord{
		ID:            jobID,
		VideoFilename: filename,
		Platform:      o.cfg.Titles.Platform,
		Status:        string(StatusPending),
	}); err != nil {
		return Outcome{}, fmt.Errorf("create job record: %w", err)
	}

	o.logger.Info(ctx, "========================================")
	o.logger.Info(ctx, "Job %s started: %s", jobID, filename)
	o.logger.Info(ctx, "========================================")
	startTime := time.Now()

	workDir := filepath.Join(o.cfg.Paths.Work, jobID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		err = fmt.Errorf("create work directory: %w", err)
		return o.fail(ctx, jobID, &state, err, CodeInternal)
	}
	defer o.cleanupWorkDir(ctx, workDir)

	// Step 1: Extract audio
	var artifact media.AudioArtifact
	err := o.runStep(ctx, jobID, &state, StatusExtracting, o.cfg.Pipeline.ExtractTimeoutSec, func(sctx context.Context) error {
		var stepErr error
		artifact, stepErr = o.extractor.Extract(sctx, videoPath, filepath.Join(workDir, "audio.ogg"))
		return stepErr
	})
	if err != nil {
		return o.fail(ctx, jobID, &state, err, CodeExtractionFailed)
	}

	// Step 2: Transcribe
	var transcript transcribe.MergedTranscript
	err = o.runStep(ctx, jobID, &state, StatusTranscribing, o.cfg.Pipeline.TranscribeTimeoutSec, func(sctx context.Context) error {
		var stepErr error
		transcript, stepErr = o.transcriber.Transcribe(sctx, artifact, workDir)
		return stepErr
	})
	if err != nil {
		return o.fail(ctx, jobID, &state, err, CodeServiceError)
	}
	if serr := o.store.SetRetryCount(ctx, jobID, transcript.Retries); serr != nil {
		o.logger.Warn(ctx, "Failed to persist retry count for job %s: %v", jobID, serr)
	}

	// Step 3: Fetch trends. Never fatal: a degraded or empty keyword set
	// just means less trend flavor in the titles.
	var keywords []string
	err = o.runStep(ctx, jobID, &state, StatusFetchingTrends, o.cfg.Pipeline.TrendsTimeoutSec, func(sctx context.Context) error {
		for _, kw := range o.trends.Fetch(sctx, o.cfg.Trends.Category) {
			keywords = append(keywords, kw.Keyword)
		}
		return nil
	})
	if err != nil {
		return o.fail(ctx, jobID, &state, err, CodeInternal)
	}

	// Step 4: Generate titles
	var generated []titles.GeneratedTitle
	err = o.runStep(ctx, jobID, &state, StatusGenerating, o.cfg.Pipeline.GenerateTimeoutSec, func(sctx context.Context) error {
		var stepErr error
		generated, stepErr = o.generator.Generate(sctx, transcript.Text, keywords, o.cfg.Titles.Platform)
		return stepErr
	})
	if err != nil {
		return o.fail(ctx, jobID, &state, err, CodeGenerationFailed)
	}

	// Terminal: Completed
	if !isValidTransition(state, StatusCompleted) {
		err = fmt.Errorf("invalid transition: %s -> %s", state, StatusCompleted)
		return o.fail(ctx, jobID, &state, err, CodeInternal)
	}
	state = StatusCompleted
	if err := o.store.MarkCompleted(ctx, jobID, transcript.WordCount, transcript.Language); err != nil {
		o.logger.Warn(ctx, "Failed to persist completion for job %s: %v", jobID, err)
	}

	reportPath := o.writeReport(ctx, jobID, filename, generated, keywords, transcript)
	o.archiveVideo(ctx, videoPath)

	o.logger.Info(ctx, "========================================")
	o.logger.Info(ctx, "Job %s completed in %s: %d title(s), %d words",
		jobID, time.Since(startTime).Round(time.Millisecond), len(generated), transcript.WordCount)
	o.logger.Info(ctx, "========================================")

	return Outcome{
		JobID:      jobID,
		Status:     state,
		Titles:     generated,
		Transcript: transcript,
		Keywords:   keywords,
		ReportPath: reportPath,
	}, nil
}

// runStep transitions into status, runs fn under the step's wall-clock
// budget, and records the elapsed time whether or not fn succeeded.
func (o *implOrchestrator) runStep(ctx context.Context, jobID string, state *Status, status Status, timeoutSec int, fn func(context.Context) error) error {
	if !isValidTransition(*state, status) {
		return fmt.Errorf("invalid transition: %s -> %s", *state, status)
	}
	*state = status
	if err := o.store.UpdateStatus(ctx, jobID, string(status)); err != nil {
		o.logger.Warn(ctx, "Failed to persist status %s for job %s: %v", status, jobID, err)
	}

	sctx := ctx
	cancel := func() {}
	if timeoutSec > 0 {
		sctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	}
	defer cancel()

	start := time.Now()
	err := fn(sctx)
	elapsed := time.Since(start)

	if terr := o.store.RecordStepTiming(ctx, jobID, string(status), elapsed); terr != nil {
		o.logger.Warn(ctx, "Failed to record %s timing for job %s: %v", status, jobID, terr)
	}
	o.logger.Debug(ctx, "Step %s took %s", status, elapsed.Round(time.Millisecond))
	return err
}

// fail settles the job in Failed with a classified error code.
func (o *implOrchestrator) fail(ctx context.Context, jobID string, state *Status, err error, fallback string) (Outcome, error) {
	code := errorCode(err, fallback)
	*state = StatusFailed

	if serr := o.store.MarkFailed(ctx, jobID, code, err.Error()); serr != nil {
		o.logger.Warn(ctx, "Failed to persist failure for job %s: %v", jobID, serr)
	}

	o.logger.Error(ctx, "Job %s failed [%s]: %v", jobID, code, err)
	return Outcome{JobID: jobID, Status: StatusFailed}, err
}

// cleanupWorkDir removes the job's work directory (extracted audio and any
// chunk files) regardless of how the job ended.
func (o *implOrchestrator) cleanupWorkDir(ctx context.Context, workDir string) {
	if err := os.RemoveAll(workDir); err != nil {
		o.logger.Warn(ctx, "Failed to clean up work directory %s: %v", workDir, err)
	} else {
		o.logger.Debug(ctx, "Cleaned up work directory: %s", workDir)
	}
}

// writeReport renders the docx report when a reporter is wired. Report
// failures never fail a completed job.
func (o *implOrchestrator) writeReport(ctx context.Context, jobID, filename string, generated []titles.GeneratedTitle, keywords []string, transcript transcribe.MergedTranscript) string {
	if o.reporter == nil {
		return ""
	}

	path, err := o.reporter.Write(ctx, report.Report{
		JobID:         jobID,
		VideoFilename: filename,
		Platform:      o.cfg.Titles.Platform,
		Titles:        generated,
		Keywords:      keywords,
		Transcript:    transcript,
	})
	if err != nil {
		o.logger.Warn(ctx, "Failed to write report for job %s: %v", jobID, err)
		return ""
	}
	return path
}

// archiveVideo moves the processed video out of the input folder.
func (o *implOrchestrator) archiveVideo(ctx context.Context, videoPath string) {
	if o.cfg.Paths.Archived == "" {
		return
	}
	if err := os.MkdirAll(o.cfg.Paths.Archived, 0755); err != nil {
		o.logger.Warn(ctx, "Failed to create archived folder: %v", err)
		return
	}

	destPath := filepath.Join(o.cfg.Paths.Archived, filepath.Base(videoPath))
	if err := os.Rename(videoPath, destPath); err != nil {
		o.logger.Warn(ctx, "Failed to move video to archived folder: %v", err)
		return
	}
	o.logger.Info(ctx, "Archived original video: %s", destPath)
}
