package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id             TEXT PRIMARY KEY,
	video_filename TEXT NOT NULL,
	platform       TEXT NOT NULL DEFAULT 'general',
	status         TEXT NOT NULL DEFAULT 'pending',
	error_code     TEXT NOT NULL DEFAULT '',
	error_message  TEXT NOT NULL DEFAULT '',
	retry_count    INTEGER NOT NULL DEFAULT 0,
	word_count     INTEGER NOT NULL DEFAULT 0,
	language       TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS job_steps (
	job_id      TEXT NOT NULL REFERENCES jobs(id),
	step        TEXT NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_job_steps_job_id ON job_steps(job_id);
`

type implStore struct {
	db *sql.DB
}

// New opens (creating if needed) the SQLite job store at path.
func New(path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &implStore{db: db}, nil
}

func (s *implStore) CreateJob(ctx context.Context, record JobRecord) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, video_filename, platform, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.VideoFilename, record.Platform, record.Status, now, now)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *implStore) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

func (s *implStore) RecordStepTiming(ctx context.Context, id, step string, elapsed time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_steps (job_id, step, elapsed_ms, recorded_at) VALUES (?, ?, ?, ?)`,
		id, step, elapsed.Milliseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record step timing: %w", err)
	}
	return nil
}

func (s *implStore) SetRetryCount(ctx context.Context, id string, count int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET retry_count = ?, updated_at = ? WHERE id = ?`,
		count, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set retry count: %w", err)
	}
	return nil
}

func (s *implStore) MarkCompleted(ctx context.Context, id string, wordCount int, language string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'completed', word_count = ?, language = ?, updated_at = ?
		WHERE id = ?`,
		wordCount, language, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (s *implStore) MarkFailed(ctx context.Context, id, code, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'failed', error_code = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		code, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

func (s *implStore) GetJob(ctx context.Context, id string) (JobRecord, error) {
	var record JobRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, video_filename, platform, status, error_code, error_message,
		       retry_count, word_count, language, created_at, updated_at
		FROM jobs WHERE id = ?`, id).Scan(
		&record.ID, &record.VideoFilename, &record.Platform, &record.Status,
		&record.ErrorCode, &record.ErrorMessage, &record.RetryCount,
		&record.WordCount, &record.Language, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return JobRecord{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return record, nil
}

func (s *implStore) StepTimings(ctx context.Context, id string) ([]StepTiming, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, elapsed_ms, recorded_at FROM job_steps WHERE job_id = ? ORDER BY recorded_at`, id)
	if err != nil {
		return nil, fmt.Errorf("query step timings: %w", err)
	}
	defer rows.Close()

	var timings []StepTiming
	for rows.Next() {
		var timing StepTiming
		var elapsedMS int64
		if err := rows.Scan(&timing.Step, &elapsedMS, &timing.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan step timing: %w", err)
		}
		timing.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		timings = append(timings, timing)
	}
	return timings, rows.Err()
}

func (s *implStore) Close() error {
	return s.db.Close()
}
