// Package style holds the caption styling the backend applies when it
// burns subtitles into video.
package style

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes how burned-in captions are drawn. Underline affects
// only client-side preview; the backend render path has no underline
// support and never receives it.
type Config struct {
	Family     string `yaml:"font_family"`
	Size       int    `yaml:"font_size"`
	Color      string `yaml:"font_color"`
	Background string `yaml:"background_color"`
	Bold       bool   `yaml:"bold"`
	Italic     bool   `yaml:"italic"`
	Underline  bool   `yaml:"underline"`
	Shadow     bool   `yaml:"shadow"`
}

// Default returns the styling the backend assumes when a request carries
// no overrides.
func Default() Config {
	return Config{
		Family:     "Arial",
		Size:       24,
		Color:      "white",
		Background: "black",
		Shadow:     true,
	}
}

// Validate checks that the config can be sent to the backend.
func (c Config) Validate() error {
	var issues []string
	if strings.TrimSpace(c.Family) == "" {
		issues = append(issues, "font family is empty")
	}
	if c.Size < 8 || c.Size > 128 {
		issues = append(issues, fmt.Sprintf("font size %d out of range [8, 128]", c.Size))
	}
	if strings.TrimSpace(c.Color) == "" {
		issues = append(issues, "font color is empty")
	}
	if strings.TrimSpace(c.Background) == "" {
		issues = append(issues, "background color is empty")
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// Patch is a field-level style update. Nil fields leave the current value
// untouched, and the struct shape means an unknown field cannot be
// expressed in code at all.
type Patch struct {
	Family     *string `yaml:"font_family"`
	Size       *int    `yaml:"font_size"`
	Color      *string `yaml:"font_color"`
	Background *string `yaml:"background_color"`
	Bold       *bool   `yaml:"bold"`
	Italic     *bool   `yaml:"italic"`
	Underline  *bool   `yaml:"underline"`
	Shadow     *bool   `yaml:"shadow"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p == Patch{}
}

// Apply merges a patch onto a config and returns the merged value.
func Apply(c Config, p Patch) Config {
	if p.Family != nil {
		c.Family = *p.Family
	}
	if p.Size != nil {
		c.Size = *p.Size
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Background != nil {
		c.Background = *p.Background
	}
	if p.Bold != nil {
		c.Bold = *p.Bold
	}
	if p.Italic != nil {
		c.Italic = *p.Italic
	}
	if p.Underline != nil {
		c.Underline = *p.Underline
	}
	if p.Shadow != nil {
		c.Shadow = *p.Shadow
	}
	return c
}

// LoadPreset reads a YAML style preset into a patch. Decoding is strict:
// unknown keys are rejected rather than ignored, so a typo in a preset
// file surfaces instead of silently doing nothing.
func LoadPreset(path string) (Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Patch{}, fmt.Errorf("read style preset: %w", err)
	}
	return decodePreset(data)
}

func decodePreset(data []byte) (Patch, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Patch
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return Patch{}, errors.New("style preset is empty")
		}
		return Patch{}, fmt.Errorf("parse style preset: %w", err)
	}
	return p, nil
}
