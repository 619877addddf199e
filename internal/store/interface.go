package store

import (
	"context"
	"time"
)

// JobRecord is the persisted view of one processing job.
type JobRecord struct {
	ID            string
	VideoFilename string
	Platform      string
	Status        string
	ErrorCode     string
	ErrorMessage  string
	RetryCount    int
	WordCount     int
	Language      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StepTiming is one step's elapsed wall-clock time for a job.
type StepTiming struct {
	Step       string
	Elapsed    time.Duration
	RecordedAt time.Time
}

// Store persists job records and per-step timings. The orchestrator emits
// into it at every transition.
type Store interface {
	CreateJob(ctx context.Context, record JobRecord) error
	UpdateStatus(ctx context.Context, id, status string) error
	RecordStepTiming(ctx context.Context, id, step string, elapsed time.Duration) error
	SetRetryCount(ctx context.Context, id string, count int) error
	MarkCompleted(ctx context.Context, id string, wordCount int, language string) error
	MarkFailed(ctx context.Context, id, code, message string) error
	GetJob(ctx context.Context, id string) (JobRecord, error)
	StepTimings(ctx context.Context, id string) ([]StepTiming, error)
	Close() error
}
