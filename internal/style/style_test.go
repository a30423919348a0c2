package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestApplyMergesOnlySetFields(t *testing.T) {
	size := 32
	italic := true
	merged := Apply(Default(), Patch{Size: &size, Italic: &italic})
	if merged.Size != 32 || !merged.Italic {
		t.Fatalf("patched fields not applied: %+v", merged)
	}
	if merged.Family != "Arial" || merged.Color != "white" || !merged.Shadow {
		t.Fatalf("unpatched fields changed: %+v", merged)
	}
}

func TestApplyZeroPatchIsNoop(t *testing.T) {
	base := Default()
	if got := Apply(base, Patch{}); got != base {
		t.Fatalf("zero patch changed config: %+v", got)
	}
	if !(Patch{}).IsZero() {
		t.Fatal("empty patch should report zero")
	}
	family := "Georgia"
	if (Patch{Family: &family}).IsZero() {
		t.Fatal("non-empty patch should not report zero")
	}
}

func TestApplyCanDisableDefaults(t *testing.T) {
	shadow := false
	merged := Apply(Default(), Patch{Shadow: &shadow})
	if merged.Shadow {
		t.Fatal("expected shadow disabled")
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	bad := Default()
	bad.Family = "  "
	bad.Size = 4
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "font family") || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected both issues reported, got: %v", err)
	}
}

func writePreset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadPreset(t *testing.T) {
	path := writePreset(t, "font_family: Georgia\nfont_size: 28\nbold: true\n")
	patch, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset returned error: %v", err)
	}
	if patch.Family == nil || *patch.Family != "Georgia" {
		t.Fatalf("family not loaded: %+v", patch)
	}
	if patch.Size == nil || *patch.Size != 28 {
		t.Fatalf("size not loaded: %+v", patch)
	}
	if patch.Bold == nil || !*patch.Bold {
		t.Fatalf("bold not loaded: %+v", patch)
	}
	if patch.Color != nil || patch.Shadow != nil {
		t.Fatalf("absent keys should stay nil: %+v", patch)
	}
}

func TestLoadPresetRejectsUnknownKeys(t *testing.T) {
	path := writePreset(t, "font_family: Georgia\nfont_weight: 700\n")
	if _, err := LoadPreset(path); err == nil {
		t.Fatal("expected strict decode to reject unknown key")
	}
}

func TestLoadPresetEmptyFile(t *testing.T) {
	path := writePreset(t, "")
	if _, err := LoadPreset(path); err == nil {
		t.Fatal("expected error for empty preset")
	}
}

func TestLoadPresetMissingFile(t *testing.T) {
	if _, err := LoadPreset(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
