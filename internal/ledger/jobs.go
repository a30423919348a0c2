package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle of a recorded job.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is one row of processing history.
type Job struct {
	ID              int64
	JobID           string
	SessionID       string
	VideoPath       string
	VideoTitle      string
	Language        string
	Model           string
	RenderVideo     bool
	Status          Status
	Message         string
	SRTPath         string
	OutputDir       string
	VideoOutputPath string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Finished reports whether the job reached a terminal status.
func (j *Job) Finished() bool {
	return j != nil && (j.Status == StatusCompleted || j.Status == StatusFailed)
}

const jobColumns = "id, job_id, session_id, video_path, video_title, language, model, render_video, status, message, srt_path, output_dir, video_output_path, created_at, updated_at"

// Record inserts a freshly submitted job.
func (s *Store) Record(ctx context.Context, job Job) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	status := job.Status
	if status == "" {
		status = StatusSubmitted
	}
	err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            job_id, session_id, video_path, video_title, language, model,
            render_video, status, message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.JobID,
		nullableString(job.SessionID),
		job.VideoPath,
		nullableString(job.VideoTitle),
		job.Language,
		job.Model,
		boolToInt(job.RenderVideo),
		string(status),
		nullableString(job.Message),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("record job: %w", err)
	}
	return nil
}

// MarkProcessing flags a job as picked up by the backend.
func (s *Store) MarkProcessing(ctx context.Context, jobID string) error {
	return s.setStatus(ctx, jobID, StatusProcessing,
		"UPDATE jobs SET status = ?, updated_at = ? WHERE job_id = ?")
}

// MarkCompleted records the artifact locations of a finished job.
func (s *Store) MarkCompleted(ctx context.Context, jobID, srtPath, outputDir, videoPath string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET status = ?, message = NULL, srt_path = ?, output_dir = ?, video_output_path = ?, updated_at = ?
         WHERE job_id = ?`,
		string(StatusCompleted),
		nullableString(srtPath),
		nullableString(outputDir),
		nullableString(videoPath),
		now,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// MarkFailed records the failure message of a finished job.
func (s *Store) MarkFailed(ctx context.Context, jobID, message string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(
		ctx,
		"UPDATE jobs SET status = ?, message = ?, updated_at = ? WHERE job_id = ?",
		string(StatusFailed),
		nullableString(message),
		now,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

func (s *Store) setStatus(ctx context.Context, jobID string, status Status, query string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithRetry(ctx, query, string(status), now, jobID); err != nil {
		return fmt.Errorf("set status %s: %w", status, err)
	}
	return nil
}

// Get fetches a job by its backend identifier. Returns nil when unknown.
func (s *Store) Get(ctx context.Context, jobID string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs WHERE job_id = ?`, jobID)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Recent returns the newest jobs first, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+jobColumns+` FROM jobs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id          int64
		jobID       string
		sessionID   sql.NullString
		videoPath   string
		videoTitle  sql.NullString
		language    string
		model       string
		renderVideo int64
		statusStr   string
		message     sql.NullString
		srtPath     sql.NullString
		outputDir   sql.NullString
		videoOutput sql.NullString
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(
		&id,
		&jobID,
		&sessionID,
		&videoPath,
		&videoTitle,
		&language,
		&model,
		&renderVideo,
		&statusStr,
		&message,
		&srtPath,
		&outputDir,
		&videoOutput,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:              id,
		JobID:           jobID,
		SessionID:       sessionID.String,
		VideoPath:       videoPath,
		VideoTitle:      videoTitle.String,
		Language:        language,
		Model:           model,
		RenderVideo:     renderVideo != 0,
		Status:          Status(statusStr),
		Message:         message.String,
		SRTPath:         srtPath.String,
		OutputDir:       outputDir.String,
		VideoOutputPath: videoOutput.String,
	}
	job.CreatedAt = parseTimestamp(createdRaw)
	job.UpdatedAt = parseTimestamp(updatedRaw)
	return job, nil
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
