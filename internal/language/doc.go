// Package language resolves the caption languages the transcription
// backend accepts.
//
// The backend exposes a small fixed menu (auto detection, English, Hindi,
// and the Hinglish mix) rather than the full whisper language set, so the
// table here carries submission values, display names, aliases, and the
// whisper code each option maps to.
package language
