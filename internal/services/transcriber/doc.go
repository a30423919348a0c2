// Package transcriber provides the HTTP client for the captioning backend.
//
// The backend accepts a video upload, transcribes it with whisper in a
// background job, and optionally burns the captions into a copy of the video.
// This package wraps that API surface:
//
//   - Client.Submit: multipart upload returning the new job id.
//   - Client.Status: one status observation for a job.
//   - Client.Watch: poll a job to completion, emitting progress events.
//   - Client.Health: liveness probe with per-dependency detail.
//   - Client.DownloadSRT / Client.DownloadVideo: fetch finished artifacts.
//
// # Polling Behaviour
//
// Watch polls at a fixed interval and retries transient failures after a
// longer delay. A 404 means the backend no longer knows the job and is fatal
// immediately. Every poll, successful or not, counts toward the attempt cap;
// exhausting the cap yields a timeout failure. Exactly one terminal event is
// delivered per job, after which the event channel closes. Context
// cancellation is honoured between polls and during sleeps.
//
// # Error Classification
//
// Errors are wrapped with the sentinel markers from internal/services so
// callers can distinguish unreachable backends (ErrUnavailable), rejected
// submissions (ErrRejected), unknown jobs (ErrNotFound), and transient
// status failures (ErrTransient).
package transcriber
