package session

import (
	"capstan/internal/services/transcriber"
	"capstan/internal/srt"
	"capstan/internal/style"
)

// Command is one session mutation. Only types in this package implement the
// interface, which keeps the reducer's case analysis closed.
type Command interface{ isCommand() }

// SetVideo loads a new video, clearing captions, output, and any prior job.
// An in-flight job is cancelled by the store before this command applies.
type SetVideo struct{ Video VideoRef }

// SetCaptionText stores raw caption text verbatim and re-derives the cue
// sequence from it.
type SetCaptionText struct{ Text string }

// EditCueText replaces the text of the cue with the matching id. Unknown
// ids are a no-op.
type EditCueText struct {
	ID   int
	Text string
}

// UpdateStyle shallow-merges the set fields of the patch into the style.
type UpdateStyle struct{ Patch style.Patch }

// SetLanguage selects the transcription language for the next job.
type SetLanguage struct{ Value string }

// SetModel selects the whisper model size for the next job.
type SetModel struct{ Value string }

// SetRenderVideo selects whether the backend should burn captions into a
// copy of the video.
type SetRenderVideo struct{ Value bool }

// Reset returns the session to its initial state. An in-flight job is
// cancelled by the store before this command applies.
type Reset struct{}

// Runner-issued commands. These never originate outside the package.
type jobStarted struct{}
type jobSubmitted struct{ id string }
type jobProgress struct{ progress Progress }
type jobCompleted struct{ result *transcriber.Result }
type jobFailed struct{ message string }

func (SetVideo) isCommand()       {}
func (SetCaptionText) isCommand() {}
func (EditCueText) isCommand()    {}
func (UpdateStyle) isCommand()    {}
func (SetLanguage) isCommand()    {}
func (SetModel) isCommand()       {}
func (SetRenderVideo) isCommand() {}
func (Reset) isCommand()          {}
func (jobStarted) isCommand()     {}
func (jobSubmitted) isCommand()   {}
func (jobProgress) isCommand()    {}
func (jobCompleted) isCommand()   {}
func (jobFailed) isCommand()      {}

// reduce applies one command to a state snapshot and returns the successor
// state. It never mutates its inputs: slices are cloned before edits so
// previously handed-out snapshots stay stable.
func reduce(state, initial State, cmd Command) State {
	switch c := cmd.(type) {
	case SetVideo:
		video := c.Video
		state.Video = &video
		state.Cues = nil
		state.RawText = ""
		state.Output = nil
		state.Job = idleJob()
		return state

	case SetCaptionText:
		state.RawText = c.Text
		state.Cues = srt.Decode(c.Text)
		return state

	case EditCueText:
		for i, cue := range state.Cues {
			if cue.ID != c.ID {
				continue
			}
			cues := make([]srt.Cue, len(state.Cues))
			copy(cues, state.Cues)
			cues[i].Text = c.Text
			state.Cues = cues
			return state
		}
		return state

	case UpdateStyle:
		state.Style = style.Apply(state.Style, c.Patch)
		return state

	case SetLanguage:
		state.Language = c.Value
		return state

	case SetModel:
		state.Model = c.Value
		return state

	case SetRenderVideo:
		state.RenderVideo = c.Value
		return state

	case Reset:
		return initial

	case jobStarted:
		state.Job = JobState{
			Running:  true,
			Progress: Progress{Step: "Submitting", Percent: -1},
		}
		state.Output = nil
		return state

	case jobSubmitted:
		state.Job.ID = c.id
		return state

	case jobProgress:
		state.Job.Progress = c.progress
		return state

	case jobCompleted:
		state.Job.Running = false
		state.Job.Error = ""
		if c.result == nil {
			return state
		}
		state.RawText = c.result.Captions
		state.Cues = srt.Decode(c.result.Captions)
		state.Output = &OutputLocation{
			SRTPath:      c.result.SRTPath,
			Dir:          c.result.OutputDir,
			VideoPath:    c.result.VideoPath,
			VideoCreated: c.result.VideoCreated,
		}
		state.Job.Progress = Progress{Step: "Complete", Message: c.result.Message, Percent: 100}
		return state

	case jobFailed:
		state.Job.Running = false
		state.Job.Error = c.message
		return state

	default:
		return state
	}
}
