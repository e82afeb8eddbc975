package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "dsn")
	if err := os.WriteFile(secretFile, []byte("  postgres://file  \n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty secret: %v", err)
	}

	t.Setenv("ROADMAP_TEST_SECRET", "  from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		errPart string
	}{
		{name: "file wins", src: Source{Name: "dsn", File: secretFile, Value: "inline", Env: "ROADMAP_TEST_SECRET"}, expect: "postgres://file"},
		{name: "inline before env", src: Source{Name: "dsn", Value: " inline ", Env: "ROADMAP_TEST_SECRET"}, expect: "inline"},
		{name: "env fallback", src: Source{Name: "dsn", Env: "ROADMAP_TEST_SECRET"}, expect: "from-env"},
		{name: "missing file", src: Source{Name: "dsn", File: filepath.Join(dir, "nope")}, errPart: "reading dsn from file"},
		{name: "empty file", src: Source{Name: "dsn", File: emptyFile, Value: "inline"}, errPart: "is empty"},
		{name: "nothing configured", src: Source{Env: "ROADMAP_TEST_UNSET"}, errPart: "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errPart) {
					t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
