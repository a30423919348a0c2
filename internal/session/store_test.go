package session_test

import (
	"reflect"
	"strings"
	"testing"

	"capstan/internal/session"
	"capstan/internal/style"
	"capstan/internal/testsupport"
)

const sampleCaptions = "1\n00:00:01,000 --> 00:00:02,500\nHello there\n\n2\n00:00:03,000 --> 00:00:04,000\nSecond line\n"

func newStore(t *testing.T) *session.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return session.New(cfg, nil, session.WithSessionID("sess-test"))
}

func TestNewSeedsDefaultsFromConfig(t *testing.T) {
	store := newStore(t)
	state := store.State()

	if state.SessionID != "sess-test" {
		t.Fatalf("unexpected session id %q", state.SessionID)
	}
	if state.Language != "auto" || state.Model != "base" {
		t.Fatalf("unexpected defaults: %+v", state)
	}
	if !state.RenderVideo {
		t.Fatal("expected render flag enabled by default")
	}
	if state.Style.Family != "Arial" || !state.Style.Shadow {
		t.Fatalf("unexpected style defaults: %+v", state.Style)
	}
	if state.Video != nil || state.HasCaptions() || state.Job.Running {
		t.Fatalf("expected pristine state, got %+v", state)
	}
	if state.Job.Progress.Percent != -1 {
		t.Fatalf("expected unknown progress percent, got %d", state.Job.Progress.Percent)
	}
}

func TestSetCaptionTextDerivesCues(t *testing.T) {
	store := newStore(t)
	store.Dispatch(session.SetCaptionText{Text: sampleCaptions})

	state := store.State()
	if state.RawText != sampleCaptions {
		t.Fatalf("raw text not stored verbatim: %q", state.RawText)
	}
	if len(state.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(state.Cues))
	}
	if state.Cues[0].Text != "Hello there" || state.Cues[1].ID != 2 {
		t.Fatalf("unexpected cues: %+v", state.Cues)
	}
}

func TestSetVideoClearsCaptionState(t *testing.T) {
	store := newStore(t)
	store.Dispatch(session.SetCaptionText{Text: sampleCaptions})
	store.Dispatch(session.SetVideo{Video: session.VideoRef{Path: "/videos/talk.mp4", Title: "Talk", SizeBytes: 42}})

	state := store.State()
	if state.Video == nil || state.Video.Path != "/videos/talk.mp4" {
		t.Fatalf("video not set: %+v", state.Video)
	}
	if state.HasCaptions() || state.RawText != "" {
		t.Fatalf("expected captions cleared, got %+v", state)
	}
	if state.Job.Running || state.Job.Error != "" || state.Output != nil {
		t.Fatalf("expected job state cleared, got %+v", state)
	}
}

func TestEditCueTextReplacesOnlyMatch(t *testing.T) {
	store := newStore(t)
	store.Dispatch(session.SetCaptionText{Text: sampleCaptions})

	before := store.State()
	store.Dispatch(session.EditCueText{ID: 2, Text: "Rewritten"})

	after := store.State()
	if after.Cues[1].Text != "Rewritten" {
		t.Fatalf("cue 2 not edited: %+v", after.Cues)
	}
	if after.Cues[0].Text != "Hello there" {
		t.Fatalf("cue 1 should be untouched: %+v", after.Cues)
	}
	// Edits must swap the sequence, never touch the handed-out snapshot.
	if before.Cues[1].Text != "Second line" {
		t.Fatalf("snapshot mutated in place: %+v", before.Cues)
	}
}

func TestEditCueTextUnknownIDIsNoop(t *testing.T) {
	store := newStore(t)
	store.Dispatch(session.SetCaptionText{Text: sampleCaptions})

	before := store.State()
	store.Dispatch(session.EditCueText{ID: 99, Text: "ignored"})

	if !reflect.DeepEqual(before.Cues, store.State().Cues) {
		t.Fatalf("unknown id must not change cues")
	}
}

func TestUpdateStyleMergesPatch(t *testing.T) {
	store := newStore(t)
	size := 40
	bold := true
	store.Dispatch(session.UpdateStyle{Patch: style.Patch{Size: &size, Bold: &bold}})

	got := store.State().Style
	if got.Size != 40 || !got.Bold {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Family != "Arial" || !got.Shadow {
		t.Fatalf("unset fields must keep defaults: %+v", got)
	}
}

func TestSelectionCommands(t *testing.T) {
	store := newStore(t)
	store.Dispatch(session.SetLanguage{Value: "hinglish"})
	store.Dispatch(session.SetModel{Value: "medium"})
	store.Dispatch(session.SetRenderVideo{Value: false})

	state := store.State()
	if state.Language != "hinglish" || state.Model != "medium" || state.RenderVideo {
		t.Fatalf("selection commands not applied: %+v", state)
	}
}

func TestExportPreservesStoredIDs(t *testing.T) {
	store := newStore(t)
	captions := "5\n00:00:01,000 --> 00:00:02,000\nFive\n\n2\n00:00:03,000 --> 00:00:04,000\nTwo\n\n9\n00:00:05,000 --> 00:00:06,000\nNine\n"
	store.Dispatch(session.SetCaptionText{Text: captions})

	exported := store.ExportCaptionText()
	blocks := strings.Split(strings.TrimSpace(exported), "\n\n")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, wantID := range []string{"5", "2", "9"} {
		if !strings.HasPrefix(blocks[i], wantID+"\n") {
			t.Fatalf("block %d does not keep id %s: %q", i, wantID, blocks[i])
		}
	}

	// Export is a pure read.
	if store.State().RawText != captions {
		t.Fatal("export must not mutate state")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	store := newStore(t)
	pristine := store.State()

	store.Dispatch(session.SetVideo{Video: session.VideoRef{Path: "/videos/talk.mp4"}})
	store.Dispatch(session.SetCaptionText{Text: sampleCaptions})
	store.Dispatch(session.SetLanguage{Value: "hindi"})
	size := 12
	store.Dispatch(session.UpdateStyle{Patch: style.Patch{Size: &size}})
	store.Dispatch(session.Reset{})

	if !reflect.DeepEqual(store.State(), pristine) {
		t.Fatalf("reset state differs from initial:\n got %+v\nwant %+v", store.State(), pristine)
	}
	if store.SessionID() != "sess-test" {
		t.Fatalf("session id must survive reset, got %q", store.SessionID())
	}
}
