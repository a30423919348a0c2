// Package session implements the captioning session state machine.
//
// A Store owns one SessionState-shaped aggregate: the loaded video, the
// decoded cue sequence, raw caption text, language/model/style selections,
// and the in-flight job. All mutation flows through a single pure reducer
// over a closed command set, so every observer reads a consistent snapshot
// and no two commands ever interleave mid-update.
//
// Processing is driven by a runner goroutine that submits the video to the
// backend, records the job in the ledger, and folds every poll event back
// into the state. At most one job runs per session; loading a new video or
// resetting the session cancels the in-flight job and orphans its runner so
// late events cannot touch the fresh state.
package session
