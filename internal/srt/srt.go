// Package srt implements the SubRip caption codec shared across capstan:
// a lenient decoder that never fails a whole document and an encoder that
// writes cue ids back verbatim.
package srt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cue is one subtitle entry. Text may span multiple lines.
type Cue struct {
	ID    int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Duration returns how long the cue stays on screen.
func (c Cue) Duration() time.Duration {
	return c.End - c.Start
}

// Decode parses SRT text into cues. Parsing is best effort: a block with
// fewer than three lines, an id that is not an integer, or a time line
// that does not match HH:MM:SS,mmm --> HH:MM:SS,mmm is dropped without
// failing the rest of the document. Empty input yields no cues.
func Decode(text string) []Cue {
	content := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if content == "" {
		return nil
	}
	blocks := strings.Split(content, "\n\n")
	cues := make([]Cue, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		start, end, err := parseTimeRange(lines[1])
		if err != nil {
			continue
		}
		body := strings.TrimSpace(strings.Join(lines[2:], "\n"))
		cues = append(cues, Cue{ID: id, Start: start, End: end, Text: body})
	}
	return cues
}

// Encode renders cues as SRT text: id line, time range line, text, one
// blank line between blocks, single trailing newline. Ids are written
// exactly as stored; Encode never renumbers.
func Encode(cues []Cue) string {
	if len(cues) == 0 {
		return ""
	}
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", cue.ID, FormatTimecode(cue.Start), FormatTimecode(cue.End), cue.Text)
	}
	return b.String()
}

// Validate reports whether the text contains at least one decodable cue.
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("empty subtitle content")
	}
	if len(Decode(text)) == 0 {
		return errors.New("no valid cues found")
	}
	return nil
}

func parseTimeRange(line string) (time.Duration, time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(line), " --> ")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time range %q", line)
	}
	start, err := ParseTimecode(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimecode(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
