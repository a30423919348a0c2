package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"capstan/internal/config"
	"capstan/internal/services"
	"capstan/internal/style"
)

const (
	componentName = "transcriber"

	submitPath        = "/api/process-video"
	statusPath        = "/api/job-status/"
	healthPath        = "/api/health"
	downloadSRTPath   = "/api/download-srt/"
	downloadVideoPath = "/api/download-video/"

	defaultRequestTimeout = 30 * time.Second
	defaultUploadTimeout  = 10 * time.Minute
	defaultHealthTimeout  = 5 * time.Second
	defaultPollInterval   = time.Second
	defaultRetryInterval  = 2 * time.Second
	defaultMaxAttempts    = 300
)

// Config captures the runtime settings required to talk to the backend.
type Config struct {
	BaseURL               string
	RequestTimeoutSeconds int
	UploadTimeoutSeconds  int
	HealthTimeoutSeconds  int
	PollIntervalSeconds   int
	RetryIntervalSeconds  int
	MaxPollAttempts       int
}

// Client wraps the captioning backend HTTP API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	uploadClient  *http.Client
	healthTimeout time.Duration

	pollInterval  time.Duration
	retryInterval time.Duration
	maxAttempts   int
	sleep         func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the client used for status, health, and downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUploadHTTPClient overrides the client used for video uploads.
func WithUploadHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.uploadClient = client
		}
	}
}

// WithSleeper overrides how polling sleeps are performed (useful for tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient constructs a backend client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		healthTimeout: secondsOr(cfg.HealthTimeoutSeconds, defaultHealthTimeout),
		pollInterval:  secondsOr(cfg.PollIntervalSeconds, defaultPollInterval),
		retryInterval: secondsOr(cfg.RetryIntervalSeconds, defaultRetryInterval),
		maxAttempts:   cfg.MaxPollAttempts,
	}
	client.httpClient = &http.Client{Timeout: secondsOr(cfg.RequestTimeoutSeconds, defaultRequestTimeout)}
	client.uploadClient = &http.Client{Timeout: secondsOr(cfg.UploadTimeoutSeconds, defaultUploadTimeout)}
	if client.baseURL == "" {
		client.baseURL = "http://127.0.0.1:5000"
	}
	if client.maxAttempts <= 0 {
		client.maxAttempts = defaultMaxAttempts
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.sleep == nil {
		client.sleep = sleepContext
	}
	return client
}

// NewConfiguredClient builds a client from application configuration.
func NewConfiguredClient(cfg *config.Config, opts ...Option) *Client {
	if cfg == nil {
		return NewClient(Config{}, opts...)
	}
	return NewClient(Config{
		BaseURL:               cfg.Backend.BaseURL,
		RequestTimeoutSeconds: cfg.Backend.RequestTimeout,
		UploadTimeoutSeconds:  cfg.Backend.UploadTimeout,
		HealthTimeoutSeconds:  cfg.Backend.HealthTimeout,
		PollIntervalSeconds:   cfg.Workflow.PollInterval,
		RetryIntervalSeconds:  cfg.Workflow.ErrorRetryInterval,
		MaxPollAttempts:       cfg.Workflow.MaxPollAttempts,
	}, opts...)
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Submission describes one video processing request.
type Submission struct {
	VideoPath   string
	Language    string
	Model       string
	RenderVideo bool
	Style       style.Config
}

// Result is the payload of a completed job.
type Result struct {
	Captions     string
	SRTPath      string
	OutputDir    string
	Message      string
	VideoCreated bool
	VideoPath    string
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Submit uploads a video and starts a processing job, returning the job id.
func (c *Client) Submit(ctx context.Context, sub Submission) (string, error) {
	if strings.TrimSpace(sub.VideoPath) == "" {
		return "", services.Wrap(services.ErrValidation, componentName, "submit", "video path required", nil)
	}

	file, err := os.Open(sub.VideoPath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, componentName, "submit", "open video", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"language":      sub.Language,
		"model":         sub.Model,
		"create_video":  strconv.FormatBool(sub.RenderVideo),
		"font_family":   sub.Style.Family,
		"font_size":     strconv.Itoa(sub.Style.Size),
		"font_color":    sub.Style.Color,
		"outline_color": sub.Style.Background,
		"bold":          strconv.FormatBool(sub.Style.Bold),
		"italic":        strconv.FormatBool(sub.Style.Italic),
		"shadow":        strconv.FormatBool(sub.Style.Shadow),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", services.Wrap(nil, componentName, "submit", "write form field "+name, err)
		}
	}
	part, err := writer.CreateFormFile("video", filepath.Base(sub.VideoPath))
	if err != nil {
		return "", services.Wrap(nil, componentName, "submit", "create video part", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", services.Wrap(nil, componentName, "submit", "copy video payload", err)
	}
	if err := writer.Close(); err != nil {
		return "", services.Wrap(nil, componentName, "submit", "close multipart writer", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, body)
	if err != nil {
		return "", services.Wrap(nil, componentName, "submit", "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrUnavailable, componentName, "submit", "cannot reach server", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrUnavailable, componentName, "submit", "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if detail := decodeErrorDetail(payload); detail != "" {
			return "", services.Wrap(services.ErrRejected, componentName, "submit", "server error: "+detail, nil)
		}
		return "", services.Wrap(services.ErrRejected, componentName, "submit",
			fmt.Sprintf("request failed: status %d", resp.StatusCode), nil)
	}

	var parsed struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", services.Wrap(services.ErrRejected, componentName, "submit", "request failed: malformed response", err)
	}
	if strings.TrimSpace(parsed.JobID) == "" {
		return "", services.Wrap(services.ErrRejected, componentName, "submit", "request failed: missing job id", nil)
	}
	return parsed.JobID, nil
}

func decodeErrorDetail(payload []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Error)
}

// JobStatus is one observation of a remote job.
type JobStatus struct {
	Type        string
	Step        string
	Message     string
	Percent     int
	ErrorDetail string
	Result      *Result
}

const (
	statusComplete = "complete"
	statusError    = "error"
)

// Completed reports whether the job finished successfully.
func (s JobStatus) Completed() bool { return s.Type == statusComplete }

// Failed reports whether the job finished with an error.
func (s JobStatus) Failed() bool { return s.Type == statusError }

// Terminal reports whether the job reached a final state.
func (s JobStatus) Terminal() bool { return s.Completed() || s.Failed() }

type statusPayload struct {
	Type               string `json:"type"`
	Progress           *int   `json:"progress"`
	CurrentStep        string `json:"current_step"`
	Message            string `json:"message"`
	Error              string `json:"error"`
	SRTContent         string `json:"srtContent"`
	SRTPath            string `json:"srtPath"`
	OutputDir          string `json:"outputDir"`
	VideoCreated       bool   `json:"videoCreated"`
	VideoWithSubtitles string `json:"videoWithSubtitles"`
}

// Status fetches a single status observation for the given job.
func (c *Client) Status(ctx context.Context, jobID string) (JobStatus, error) {
	var empty JobStatus
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+statusPath+jobID, nil)
	if err != nil {
		return empty, services.Wrap(nil, componentName, "status", "build request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrUnavailable, componentName, "status", "cannot reach server", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, services.Wrap(services.ErrTransient, componentName, "status", "read response", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return empty, services.Wrap(services.ErrNotFound, componentName, "status", "job not found on server", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return empty, services.Wrap(services.ErrTransient, componentName, "status", "status request failed",
			&httpStatusError{StatusCode: resp.StatusCode, Body: string(payload)})
	}

	var parsed statusPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return empty, services.Wrap(services.ErrTransient, componentName, "status", "malformed status payload", err)
	}
	return parsed.toStatus(), nil
}

func (p statusPayload) toStatus() JobStatus {
	status := JobStatus{
		Type:    p.Type,
		Step:    strings.TrimSpace(p.CurrentStep),
		Message: strings.TrimSpace(p.Message),
		Percent: -1,
	}
	if status.Step == "" {
		status.Step = "Processing"
	}
	if p.Progress != nil && *p.Progress >= 0 {
		status.Percent = *p.Progress
		if status.Percent > 100 {
			status.Percent = 100
		}
	}
	switch p.Type {
	case statusComplete:
		status.Percent = 100
		status.Result = &Result{
			Captions:     p.SRTContent,
			SRTPath:      p.SRTPath,
			OutputDir:    p.OutputDir,
			Message:      p.Message,
			VideoCreated: p.VideoCreated,
			VideoPath:    p.VideoWithSubtitles,
		}
	case statusError:
		status.ErrorDetail = strings.TrimSpace(p.Error)
		if status.ErrorDetail == "" {
			status.ErrorDetail = "processing failed"
		}
	}
	return status
}

// HealthReport describes backend liveness and its processing dependencies.
type HealthReport struct {
	Status       string          `json:"status"`
	Dependencies map[string]bool `json:"dependencies"`
}

// Healthy reports whether the backend answered and declared itself healthy.
func (r HealthReport) Healthy() bool { return r.Status == "healthy" }

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var empty HealthReport
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return empty, services.Wrap(nil, componentName, "health", "build request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrUnavailable, componentName, "health", "server is not responding", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return empty, services.Wrap(services.ErrUnavailable, componentName, "health", "server is not responding",
			&httpStatusError{StatusCode: resp.StatusCode})
	}
	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return empty, services.Wrap(services.ErrUnavailable, componentName, "health", "server is not responding", err)
	}
	return report, nil
}

// DownloadSRT streams the finished subtitle file for a job into w.
func (c *Client) DownloadSRT(ctx context.Context, jobID string, w io.Writer) (int64, error) {
	return c.download(ctx, c.httpClient, downloadSRTPath+jobID, w)
}

// DownloadVideo streams the rendered video for a job into w. The upload
// timeout applies because rendered videos can be as large as the source.
func (c *Client) DownloadVideo(ctx context.Context, jobID string, w io.Writer) (int64, error) {
	return c.download(ctx, c.uploadClient, downloadVideoPath+jobID, w)
}

func (c *Client) download(ctx context.Context, client *http.Client, path string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, services.Wrap(nil, componentName, "download", "build request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrUnavailable, componentName, "download", "cannot reach server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, services.Wrap(services.ErrNotFound, componentName, "download", "artifact not found on server", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if detail := decodeErrorDetail(payload); detail != "" {
			return 0, services.Wrap(services.ErrRejected, componentName, "download", "server error: "+detail, nil)
		}
		return 0, services.Wrap(services.ErrRejected, componentName, "download",
			fmt.Sprintf("request failed: status %d", resp.StatusCode), nil)
	}
	written, err := io.Copy(w, resp.Body)
	if err != nil {
		return written, services.Wrap(nil, componentName, "download", "stream artifact", err)
	}
	return written, nil
}
