// Package preflight provides readiness checks for the transcription
// backend and the filesystem paths that capstan depends on.
//
// These checks run in two contexts:
//   - The "capstan process" command runs the blocking checks before
//     uploading a video so a doomed run fails in seconds, not after a
//     long upload.
//   - The "capstan health" command calls RunAll to render the full
//     readiness table including per-dependency backend status.
package preflight
