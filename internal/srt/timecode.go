package srt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimecode parses a strict SRT timecode of the form HH:MM:SS,mmm.
// Minutes and seconds are exactly two digits and milliseconds exactly
// three; hours may widen beyond two digits for very long media.
// Component values are not range-checked, so 00:99:00,000 parses to the
// value the arithmetic implies.
func ParseTimecode(value string) (time.Duration, error) {
	clock, millisText, found := strings.Cut(value, ",")
	if !found {
		return 0, fmt.Errorf("invalid timecode %q", value)
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timecode %q", value)
	}
	if len(parts[0]) < 2 || len(parts[1]) != 2 || len(parts[2]) != 2 || len(millisText) != 3 {
		return 0, fmt.Errorf("invalid timecode %q", value)
	}
	for _, field := range []string{parts[0], parts[1], parts[2], millisText} {
		if !allDigits(field) {
			return 0, fmt.Errorf("invalid timecode %q", value)
		}
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.Atoi(parts[2])
	millis, _ := strconv.Atoi(millisText)
	total := (hours*3600+minutes*60+seconds)*1000 + millis
	return time.Duration(total) * time.Millisecond, nil
}

// FormatTimecode renders a duration as HH:MM:SS,mmm with zero padding.
// Negative durations clamp to zero.
func FormatTimecode(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Milliseconds()
	hours := total / 3_600_000
	minutes := (total % 3_600_000) / 60_000
	seconds := (total % 60_000) / 1_000
	millis := total % 1_000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
