package names

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	t.Run("keeps blank and malformed lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "names.txt")
		content := "Alice Smith\n\n  Madonna  \nBob Jones"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		lines, err := ReadLines(path)
		if err != nil {
			t.Fatalf("ReadLines returned error: %v", err)
		}

		want := []string{"Alice Smith", "", "  Madonna  ", "Bob Jones"}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadLines(filepath.Join(t.TempDir(), "missing.txt"))
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected *NotFoundError, got %v", err)
		}
	})

	t.Run("strips byte order mark and CRLF endings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "names.txt")
		content := "\ufeffAlice Smith\r\nBob Jones\r\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		lines, err := ReadLines(path)
		if err != nil {
			t.Fatalf("ReadLines returned error: %v", err)
		}

		want := []string{"Alice Smith", "Bob Jones"}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
			}
		}
	})

	t.Run("accepts lines longer than 64 KiB", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "names.txt")
		long := strings.Repeat("x", 70000)
		if err := os.WriteFile(path, []byte("Alice Smith\n"+long+"\nBob Jones\n"), 0o644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		lines, err := ReadLines(path)
		if err != nil {
			t.Fatalf("ReadLines returned error: %v", err)
		}
		if len(lines) != 3 || len(lines[1]) != 70000 || lines[2] != "Bob Jones" {
			t.Fatalf("unexpected lines: %d lines, second has %d bytes", len(lines), len(lines[1]))
		}
	})
}
