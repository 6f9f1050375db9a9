package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"control runes dropped", " A\nB\rC\tD\x00 ", 100, "ABCD"},
		{"allowed kept", "Az09 -_.,()", 100, "Az09 -_.,()"},
		{"disallowed replaced", "bad<>|\"name", 100, "bad____name"},
		{"slashes replaced", "../etc/passwd", 100, ".._etc_passwd"},
		{"truncated by rune", "éééééééééééé", 4, "éééé"},
		{"unlimited", "abcdefghijklmnop", 0, "abcdefghijklmnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeName(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if err := ValidateOutputDir(base); err != nil {
		t.Fatalf("ValidateOutputDir(%q) error = %v, want nil", base, err)
	}

	for _, dir := range []string{
		"",
		filepath.Join(base, "missing"),
		"/tmp/../etc",
		base + "/",
		file,
	} {
		if err := ValidateOutputDir(dir); !errors.Is(err, ErrInvalidOutputDir) {
			t.Errorf("ValidateOutputDir(%q) error = %v, want ErrInvalidOutputDir", dir, err)
		}
	}
}
