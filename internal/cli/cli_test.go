package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r3dlin3/new-labusers/internal/directory"
	"github.com/r3dlin3/new-labusers/internal/generator"
	"github.com/r3dlin3/new-labusers/internal/names"
)

func writeNames(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, "names.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write names: %v", err)
	}
	return path
}

func TestExecute_LDIFMode(t *testing.T) {
	dir := t.TempDir()
	input := writeNames(t, dir, "Alice Smith\nBob Jones\n")
	out := filepath.Join(dir, "lab.ldif")

	var stdout, stderr bytes.Buffer
	err := Execute([]string{
		"--input-file", input,
		"--base-dn", "DC=example,DC=com",
		"--ldif-file", out,
		"--upn-suffix", "example.com",
		"--seed", "3",
		"--no-color",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Execute returned error: %v (stderr: %s)", err, stderr.String())
	}

	if stdout.String() != "2 out of 2 users created.\n" {
		t.Fatalf("unexpected summary %q", stdout.String())
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected LDIF file: %v", err)
	}
	text := string(raw)
	for _, want := range []string{
		"OU=CORP,DC=example,DC=com",
		"OU=Shared,OU=CORP,DC=example,DC=com",
		"Alice.Smith@example.com",
		"Bob.Jones@example.com",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("LDIF output missing %q", want)
		}
	}

	if !strings.Contains(stderr.String(), "run_id=") {
		t.Fatalf("expected log lines tagged with run_id, got %q", stderr.String())
	}
}

func TestExecute_MissingInputFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "lab.ldif")

	var stdout, stderr bytes.Buffer
	err := Execute([]string{
		"--input-file", filepath.Join(dir, "missing.txt"),
		"--base-dn", "DC=example,DC=com",
		"--ldif-file", out,
	}, &stdout, &stderr)

	var nf *names.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *names.NotFoundError, got %v", err)
	}
	if _, statErr := os.Stat(out); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected no LDIF file to be written, got %v", statErr)
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected no summary, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "input file not found") {
		t.Fatalf("expected a warning, got %q", stderr.String())
	}
}

func TestExecute_MissingInputFileNeverDials(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := Execute([]string{
		"--input-file", filepath.Join(dir, "missing.txt"),
		"--mode", "ldap",
		"--ldap-url", "ldap://127.0.0.1:1",
		"--bind-dn", "CN=admin,DC=example,DC=com",
		"--bind-password", "secret",
	}, &stdout, &stderr)

	// A dial attempt would fail with a connection error instead.
	var nf *names.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *names.NotFoundError, got %v", err)
	}
}

// stubDirectory counts Close calls.
type stubDirectory struct {
	closed int
}

func (s *stubDirectory) Forest() (directory.ForestInfo, error) {
	return directory.NewForestInfo("example.com", "DC=example,DC=com"), nil
}
func (s *stubDirectory) OUExists(string) (bool, error)                 { return false, nil }
func (s *stubDirectory) CreateOU(string, string) error                 { return nil }
func (s *stubDirectory) CreateUser(generator.UserRecord, string) error { return nil }
func (s *stubDirectory) Close() error {
	s.closed++
	return nil
}

func TestLazyDirectory(t *testing.T) {
	t.Run("close without use never opens", func(t *testing.T) {
		opened := 0
		l := newLazyDirectory(func() (closableDirectory, error) {
			opened++
			return &stubDirectory{}, nil
		})
		if err := l.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}
		if opened != 0 {
			t.Fatalf("expected no open, got %d", opened)
		}
	})

	t.Run("opens once and closes the backend", func(t *testing.T) {
		opened := 0
		stub := &stubDirectory{}
		l := newLazyDirectory(func() (closableDirectory, error) {
			opened++
			return stub, nil
		})
		if _, err := l.Forest(); err != nil {
			t.Fatalf("Forest returned error: %v", err)
		}
		if err := l.CreateOU("CORP", "DC=example,DC=com"); err != nil {
			t.Fatalf("CreateOU returned error: %v", err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}
		if opened != 1 || stub.closed != 1 {
			t.Fatalf("expected one open and one close, got %d/%d", opened, stub.closed)
		}
	})

	t.Run("open error is returned", func(t *testing.T) {
		want := errors.New("dial failed")
		l := newLazyDirectory(func() (closableDirectory, error) { return nil, want })
		if _, err := l.Forest(); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	})
}

func TestExecute_ModeRequirements(t *testing.T) {
	dir := t.TempDir()
	input := writeNames(t, dir, "Alice Smith\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "ldif without base DN", args: []string{"--input-file", input}},
		{name: "ldap without credentials", args: []string{"--input-file", input, "--mode", "ldap", "--ldap-url", "ldaps://dc01:636"}},
		{name: "unknown mode", args: []string{"--input-file", input, "--mode", "csv"}},
		{name: "zero password length", args: []string{"--input-file", input, "--base-dn", "DC=example,DC=com", "--password-length", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := Execute(tt.args, &stdout, &stderr); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestCLIConfig_RunConfig(t *testing.T) {
	cfg := NewCLIConfig()
	cfg.Password = "Fixed1!"
	cfg.OUName = "LAB"
	cfg.UPNSuffix = "lab.local"

	rc := cfg.runConfig()
	if rc.OverridePassword != "Fixed1!" || rc.OUName != "LAB" || rc.UPNSuffix != "lab.local" {
		t.Fatalf("unexpected run config %+v", rc)
	}
	if rc.PasswordLength != 16 || rc.InputFile != "data/names.txt" {
		t.Fatalf("expected defaults to carry over, got %+v", rc)
	}
}
