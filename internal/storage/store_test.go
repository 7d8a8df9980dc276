package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPathRejectsEscapes(t *testing.T) {
	s := &LocalStore{BaseDir: "/data/uploads"}

	cases := []struct {
		ref  string
		ok   bool
		path string
	}{
		{"/uploads/proofs/a.png", true, filepath.Join("/data/uploads", "proofs", "a.png")},
		{"/uploads/qr/event.png", true, filepath.Join("/data/uploads", "qr", "event.png")},
		{"/uploads/../etc/passwd", false, ""},
		{"/uploads/proofs/../../secret.txt", false, ""},
		{"/uploads/", false, ""},
		{"/elsewhere/a.png", false, ""},
		{"https://example.com/a.png", false, ""},
		{"", false, ""},
	}
	for _, tc := range cases {
		path, ok := s.localPath(tc.ref)
		if ok != tc.ok {
			t.Errorf("localPath(%q): ok = %v, want %v", tc.ref, ok, tc.ok)
			continue
		}
		if ok && path != tc.path {
			t.Errorf("localPath(%q) = %q, want %q", tc.ref, path, tc.path)
		}
	}
}

func TestDeleteIsBestEffort(t *testing.T) {
	dir := t.TempDir()
	s := &LocalStore{BaseDir: dir}

	if err := os.MkdirAll(filepath.Join(dir, "proofs"), 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "proofs", "a.png")
	if err := os.WriteFile(target, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}

	refs := []string{
		"/uploads/proofs/a.png",     // exists, should be removed
		"/uploads/proofs/gone.png",  // already missing
		"not-a-reference",           // non-local, skipped
		"/uploads/../escape.png",    // traversal, skipped
	}
	if err := s.Delete(refs); err != nil {
		t.Fatalf("Delete should never fail, got %v", err)
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("stored file should be gone, stat err = %v", err)
	}
}
