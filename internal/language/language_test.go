package language

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// submission values pass through
		{"auto", "auto"},
		{"english", "english"},
		{"hindi", "hindi"},
		{"hinglish", "hinglish"},
		// case and whitespace are forgiven
		{"  English  ", "english"},
		{"AUTO", "auto"},
		// whisper codes and aliases resolve
		{"en", "english"},
		{"eng", "english"},
		{"hi", "hindi"},
		{"hin", "hindi"},
		{"detect", "auto"},
		{"hindi-english", "hinglish"},
		// display names resolve
		{"Auto Detect", "auto"},
		{"Hinglish (Hindi + English mix)", "hinglish"},
	}
	for _, tc := range tests {
		got, err := Normalize(tc.input)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizeRejectsUnknown(t *testing.T) {
	for _, input := range []string{"", "klingon", "fr", "12"} {
		if _, err := Normalize(input); err == nil {
			t.Fatalf("Normalize(%q) expected error", input)
		} else if !strings.Contains(err.Error(), "auto") {
			t.Fatalf("error should name accepted values, got: %v", err)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("hinglish"); got != "Hinglish (Hindi + English mix)" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := Display("unknown"); got != "unknown" {
		t.Fatalf("unrecognized value should pass through, got %q", got)
	}
}

func TestWhisperCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"auto", ""},
		{"english", "en"},
		{"hindi", "hi"},
		{"hinglish", "hi"},
		{"unknown", ""},
	}
	for _, tc := range tests {
		if got := WhisperCode(tc.input); got != tc.expected {
			t.Fatalf("WhisperCode(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestOptionsOrder(t *testing.T) {
	keys := Keys()
	want := []string{"auto", "english", "hindi", "hinglish"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("option %d = %q, want %q", i, keys[i], want[i])
		}
	}
	opts := Options()
	if opts[0].Display != "Auto Detect" || opts[0].Whisper != "" {
		t.Fatalf("unexpected first option: %+v", opts[0])
	}
}
