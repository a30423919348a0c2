package language

import (
	"fmt"
	"strings"
)

type entry struct {
	key     string   // submission value sent with a processing request
	display string   // human-readable name
	whisper string   // whisper language code ("" lets the model decide)
	words   []string // accepted aliases
}

var options = []entry{
	{"auto", "Auto Detect", "", []string{"detect", "automatic"}},
	{"english", "English", "en", []string{"en", "eng"}},
	{"hindi", "Hindi", "hi", []string{"hi", "hin"}},
	{"hinglish", "Hinglish (Hindi + English mix)", "hi", []string{"hi-en", "hindi-english"}},
}

var byAlias map[string]*entry

func init() {
	byAlias = make(map[string]*entry, len(options)*3)
	for i := range options {
		e := &options[i]
		byAlias[e.key] = e
		byAlias[strings.ToLower(e.display)] = e
		for _, w := range e.words {
			byAlias[w] = e
		}
	}
}

// Option describes one selectable language.
type Option struct {
	Key     string
	Display string
	Whisper string
}

// Options lists the selectable languages in display order.
func Options() []Option {
	out := make([]Option, 0, len(options))
	for _, e := range options {
		out = append(out, Option{Key: e.key, Display: e.display, Whisper: e.whisper})
	}
	return out
}

// Keys lists the submission values in display order.
func Keys() []string {
	out := make([]string, 0, len(options))
	for _, e := range options {
		out = append(out, e.key)
	}
	return out
}

// Normalize resolves user input (key, display name, alias, or whisper
// code) to the submission value. Unrecognized input is an error naming
// the accepted values.
func Normalize(input string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	if cleaned == "" {
		return "", fmt.Errorf("language is empty (choose from %s)", strings.Join(Keys(), ", "))
	}
	if e, ok := byAlias[cleaned]; ok {
		return e.key, nil
	}
	return "", fmt.Errorf("unsupported language %q (choose from %s)", input, strings.Join(Keys(), ", "))
}

// Display returns the human-readable name for a submission value, or the
// value itself when it is not recognized.
func Display(key string) string {
	if e, ok := byAlias[strings.ToLower(strings.TrimSpace(key))]; ok {
		return e.display
	}
	return key
}

// WhisperCode returns the whisper language code for a submission value.
// Empty means the model detects the language itself.
func WhisperCode(key string) string {
	if e, ok := byAlias[strings.ToLower(strings.TrimSpace(key))]; ok {
		return e.whisper
	}
	return ""
}
