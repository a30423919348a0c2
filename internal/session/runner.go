package session

import (
	"context"

	"github.com/google/uuid"

	"capstan/internal/ledger"
	"capstan/internal/logging"
	"capstan/internal/services"
	"capstan/internal/services/transcriber"
)

// StartProcessing submits the loaded video and drives the job to completion
// in a background runner. The returned channel mirrors the backend event
// stream: zero or more progress events, then exactly one terminal event,
// then close. State is untouched when the start is rejected.
func (s *Store) StartProcessing(ctx context.Context) (<-chan transcriber.Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.state.Video == nil {
		s.mu.Unlock()
		return nil, ErrNoVideo
	}
	if s.state.Job.Running {
		s.mu.Unlock()
		return nil, ErrJobRunning
	}
	s.jobGen++
	gen := s.jobGen
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelJob = cancel
	video := *s.state.Video
	sub := transcriber.Submission{
		VideoPath:   video.Path,
		Language:    s.state.Language,
		Model:       s.state.Model,
		RenderVideo: s.state.RenderVideo,
		Style:       s.state.Style,
	}
	s.state = reduce(s.state, s.initial, jobStarted{})
	s.mu.Unlock()

	out := make(chan transcriber.Event, 8)
	go s.run(runCtx, cancel, gen, video, sub, out)
	return out, nil
}

// CancelProcessing aborts the in-flight job, if any. The cancellation
// surfaces asynchronously as a job failure once the poll loop observes it.
func (s *Store) CancelProcessing() bool {
	s.mu.Lock()
	cancel := s.cancelJob
	running := s.state.Job.Running
	s.mu.Unlock()
	if !running || cancel == nil {
		return false
	}
	cancel()
	return true
}

func (s *Store) run(ctx context.Context, cancel context.CancelFunc, gen int, video VideoRef, sub transcriber.Submission, out chan<- transcriber.Event) {
	defer cancel()
	defer close(out)

	ctx = services.WithSessionID(ctx, s.initial.SessionID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	log := logging.WithContext(ctx, s.logger)
	log.Info("submitting video",
		logging.String(logging.FieldVideo, video.Path),
		logging.String("language", sub.Language),
		logging.String("model", sub.Model),
		logging.Bool("render_video", sub.RenderVideo))

	jobID, err := s.client.Submit(ctx, sub)
	if err != nil {
		log.Error("submission failed", logging.Error(err))
		s.applyJobCommand(gen, jobFailed{message: err.Error()})
		out <- transcriber.Event{Kind: transcriber.EventFailed, Message: err.Error(), Err: err}
		return
	}

	ctx = services.WithJobID(ctx, jobID)
	log = logging.WithContext(ctx, s.logger)
	log.Info("job submitted")

	s.applyJobCommand(gen, jobSubmitted{id: jobID})
	s.recordSubmitted(ctx, jobID, video, sub)

	marked := false
	for event := range s.client.Watch(ctx, jobID) {
		switch event.Kind {
		case transcriber.EventProgress:
			s.applyJobCommand(gen, jobProgress{progress: Progress{
				Step:    event.Progress.Step,
				Message: event.Progress.Message,
				Percent: event.Progress.Percent,
			}})
			if !marked {
				marked = true
				s.markProcessing(ctx, jobID)
			}
			log.Debug("job progress",
				logging.String(logging.FieldStep, event.Progress.Step),
				logging.Int(logging.FieldPercent, event.Progress.Percent))

		case transcriber.EventCompleted:
			s.applyJobCommand(gen, jobCompleted{result: event.Result})
			s.markCompleted(ctx, jobID, event.Result)
			log.Info("job completed", logging.Int("cues", len(s.State().Cues)))

		case transcriber.EventFailed:
			s.applyJobCommand(gen, jobFailed{message: event.Message})
			s.markFailed(ctx, jobID, event.Message)
			log.Warn("job failed", logging.String("reason", event.Message), logging.Error(event.Err))
		}
		out <- event
	}
}

// applyJobCommand folds a runner command into the state unless the runner
// was orphaned by a newer job, video load, or reset.
func (s *Store) applyJobCommand(gen int, cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.jobGen {
		return
	}
	s.state = reduce(s.state, s.initial, cmd)
	switch cmd.(type) {
	case jobCompleted, jobFailed:
		s.cancelJob = nil
	}
}

// History writes use a detached context so cancelled jobs still leave a
// terminal row behind.
func (s *Store) recordSubmitted(ctx context.Context, jobID string, video VideoRef, sub transcriber.Submission) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(context.WithoutCancel(ctx), ledger.Job{
		JobID:       jobID,
		SessionID:   s.initial.SessionID,
		VideoPath:   video.Path,
		VideoTitle:  video.Title,
		Language:    sub.Language,
		Model:       sub.Model,
		RenderVideo: sub.RenderVideo,
	})
	if err != nil {
		logging.WithContext(ctx, s.logger).Warn("record job history", logging.Error(err))
	}
}

func (s *Store) markProcessing(ctx context.Context, jobID string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.MarkProcessing(context.WithoutCancel(ctx), jobID); err != nil {
		logging.WithContext(ctx, s.logger).Warn("update job history", logging.Error(err))
	}
}

func (s *Store) markCompleted(ctx context.Context, jobID string, result *transcriber.Result) {
	if s.recorder == nil || result == nil {
		return
	}
	if err := s.recorder.MarkCompleted(context.WithoutCancel(ctx), jobID, result.SRTPath, result.OutputDir, result.VideoPath); err != nil {
		logging.WithContext(ctx, s.logger).Warn("update job history", logging.Error(err))
	}
}

func (s *Store) markFailed(ctx context.Context, jobID, message string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.MarkFailed(context.WithoutCancel(ctx), jobID, message); err != nil {
		logging.WithContext(ctx, s.logger).Warn("update job history", logging.Error(err))
	}
}
