package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewStore(path)

	if err := s.Load(); err != nil {
		t.Fatalf("load with no file: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("fresh store should not be authenticated")
	}

	if err := s.Save("abc123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := s.Token(); got != "abc123" {
		t.Fatalf("token = %q", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("token file mode = %v, want 0600", perm)
	}

	// A second store pointed at the same path picks the token up on Load.
	s2 := NewStore(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s2.Token(); got != "abc123" {
		t.Fatalf("reloaded token = %q", got)
	}

	if err := s2.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s2.Authenticated() {
		t.Fatalf("cleared store should not be authenticated")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file should be removed, stat err = %v", err)
	}

	// Clearing twice is fine.
	if err := s2.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestLoadTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("tok-1\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Token(); got != "tok-1" {
		t.Fatalf("token = %q, want trimmed", got)
	}
}
