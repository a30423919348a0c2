package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"capstan/internal/config"
	"capstan/internal/ledger"
	"capstan/internal/logging"
	"capstan/internal/services/transcriber"
	"capstan/internal/srt"
)

var (
	// ErrNoVideo is returned when processing starts before a video is loaded.
	ErrNoVideo = errors.New("no video loaded")
	// ErrJobRunning is returned when a job is started while one is in flight.
	ErrJobRunning = errors.New("processing already running")
)

// JobClient is the backend surface the session drives. *transcriber.Client
// satisfies it; tests substitute stubs.
type JobClient interface {
	Submit(ctx context.Context, sub transcriber.Submission) (string, error)
	Watch(ctx context.Context, jobID string) <-chan transcriber.Event
}

// Recorder persists job history as the runner observes transitions.
// *ledger.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, job ledger.Job) error
	MarkProcessing(ctx context.Context, jobID string) error
	MarkCompleted(ctx context.Context, jobID, srtPath, outputDir, videoPath string) error
	MarkFailed(ctx context.Context, jobID, message string) error
}

// Store owns one session and serializes every mutation through its reducer.
type Store struct {
	mu      sync.Mutex
	state   State
	initial State

	client   JobClient
	recorder Recorder
	logger   *slog.Logger

	// jobGen invalidates runner goroutines that outlive their job: commands
	// carrying a stale generation are dropped.
	jobGen    int
	cancelJob context.CancelFunc
}

// Option customizes a Store.
type Option func(*Store)

// WithRecorder attaches a job history recorder.
func WithRecorder(rec Recorder) Option {
	return func(s *Store) {
		s.recorder = rec
	}
}

// WithLogger attaches a logger for runner lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionID overrides the generated session identifier (useful for tests).
func WithSessionID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.initial.SessionID = id
			s.state.SessionID = id
		}
	}
}

// New constructs a session seeded from configuration defaults.
func New(cfg *config.Config, client JobClient, opts ...Option) *Store {
	store := &Store{
		initial: initialState(uuid.NewString(), cfg),
		client:  client,
		logger:  logging.NewNop(),
	}
	store.state = store.initial
	for _, opt := range opts {
		opt(store)
	}
	store.logger = logging.NewComponentLogger(store.logger, "session")
	return store
}

// SessionID returns the stable identifier assigned at construction.
func (s *Store) SessionID() string {
	return s.initial.SessionID
}

// State returns the current snapshot. The contained cue slice is shared and
// must not be mutated by callers.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies one command. Loading a new video or resetting cancels an
// in-flight job and orphans its runner before the command applies.
func (s *Store) Dispatch(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cmd.(type) {
	case SetVideo, Reset:
		s.orphanJobLocked()
	}
	s.state = reduce(s.state, s.initial, cmd)
}

// ExportCaptionText serializes the current cue sequence. Pure read.
func (s *Store) ExportCaptionText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return srt.Encode(s.state.Cues)
}

// orphanJobLocked cancels the in-flight runner and bumps the generation so
// its late commands are dropped instead of touching the fresh state.
func (s *Store) orphanJobLocked() {
	if s.cancelJob != nil {
		s.cancelJob()
		s.cancelJob = nil
	}
	s.jobGen++
}
