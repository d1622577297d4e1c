package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

func TestLocalStore_SaveAndDelete(t *testing.T) {
	store := newTestStore(t)

	path, err := store.Save("cover.PNG", strings.NewReader("image bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(path, "/uploads/") {
		t.Fatalf("expected public prefix, got %q", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Fatalf("expected lowercased extension kept, got %q", path)
	}

	onDisk := filepath.Join(store.BaseDir(), strings.TrimPrefix(path, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "image bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	if !store.Delete(path) {
		t.Fatalf("Delete reported failure")
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("file still present after delete")
	}
}

func TestLocalStore_SaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	a, err := store.Save("cover.png", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := store.Save("cover.png", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Fatalf("same filename produced the same stored path: %q", a)
	}
}

func TestLocalStore_DeleteRejectsForeignPaths(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{
		"",
		"/uploads/",
		"/etc/passwd",
		"/uploads/../secret",
		"/uploads/sub/dir",
		"relative.png",
	} {
		if store.Delete(path) {
			t.Fatalf("Delete accepted %q", path)
		}
	}
}

func TestLocalStore_DeleteMissingFile(t *testing.T) {
	store := newTestStore(t)

	if store.Delete("/uploads/never-stored.png") {
		t.Fatalf("Delete reported success for a missing file")
	}
}
