package session

import (
	"capstan/internal/config"
	"capstan/internal/srt"
	"capstan/internal/style"
)

// VideoRef identifies the local video file a session operates on.
type VideoRef struct {
	Path      string
	Title     string
	SizeBytes int64
}

// Progress mirrors the latest observation of the remote job.
type Progress struct {
	Step    string
	Message string
	// Percent is -1 when the backend has not reported a value yet.
	Percent int
}

// JobState tracks the in-flight (or most recently finished) processing job.
type JobState struct {
	ID       string
	Running  bool
	Progress Progress
	Error    string
}

// OutputLocation points at the artifacts a completed job left on the server.
type OutputLocation struct {
	SRTPath      string
	Dir          string
	VideoPath    string
	VideoCreated bool
}

// State is one immutable snapshot of a captioning session. Cues must be
// treated as read-only; every mutation replaces the slice wholesale so
// concurrent readers always scan a consistent sequence.
type State struct {
	SessionID   string
	Video       *VideoRef
	Cues        []srt.Cue
	RawText     string
	Language    string
	Model       string
	RenderVideo bool
	Style       style.Config
	Job         JobState
	Output      *OutputLocation
}

// HasCaptions reports whether the session holds at least one cue.
func (s State) HasCaptions() bool { return len(s.Cues) > 0 }

func initialState(id string, cfg *config.Config) State {
	state := State{
		SessionID:   id,
		Language:    "auto",
		Model:       "base",
		RenderVideo: true,
		Style:       style.Default(),
		Job:         idleJob(),
	}
	if cfg == nil {
		return state
	}
	if cfg.Defaults.Language != "" {
		state.Language = cfg.Defaults.Language
	}
	if cfg.Defaults.Model != "" {
		state.Model = cfg.Defaults.Model
	}
	state.RenderVideo = cfg.Defaults.RenderVideo
	state.Style = style.Config{
		Family:     cfg.Style.FontFamily,
		Size:       cfg.Style.FontSize,
		Color:      cfg.Style.FontColor,
		Background: cfg.Style.BackgroundColor,
		Bold:       cfg.Style.Bold,
		Italic:     cfg.Style.Italic,
		Underline:  cfg.Style.Underline,
		Shadow:     cfg.Style.Shadow,
	}
	return state
}

func idleJob() JobState {
	return JobState{Progress: Progress{Percent: -1}}
}
