package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/lineage-health/platform/internal/shared/types"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	userID := types.NewID()
	content := []byte("hemoglobin 13.5 g/dL")

	stored, err := store.Save(userID, "labs.pdf", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(stored.Path, userID.String()+"/") {
		t.Errorf("path = %q, want prefix %q", stored.Path, userID.String()+"/")
	}
	if !strings.HasSuffix(stored.Path, ".pdf") {
		t.Errorf("path = %q, want .pdf suffix", stored.Path)
	}
	if stored.Size != int64(len(content)) {
		t.Errorf("size = %d, want %d", stored.Size, len(content))
	}

	sum := sha256.Sum256(content)
	if stored.Hash != hex.EncodeToString(sum[:]) {
		t.Errorf("hash = %q, want %q", stored.Hash, hex.EncodeToString(sum[:]))
	}

	f, err := store.Open(stored.Path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("read back %q, want %q", got, content)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, path := range []string{"../etc/passwd", "../../secret", "a/../../b"} {
		if _, err := store.Open(path); err == nil {
			t.Errorf("Open(%q) should fail", path)
		}
	}
}

func TestRemove(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	userID := types.NewID()
	stored, err := store.Save(userID, "report.txt", strings.NewReader("ok"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Remove(stored.Path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Open(stored.Path); err == nil {
		t.Error("file should be gone after Remove")
	}

	// Removing again is not an error.
	if err := store.Remove(stored.Path); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestSafeExt(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"labs.pdf", ".pdf"},
		{"scan.PNG", ".png"},
		{"noext", ""},
		{"weird.p/df", ""},
		{"long.extension-that-is-too-long", ""},
		{"dotted.tar.gz", ".gz"},
	}

	for _, tt := range tests {
		if got := safeExt(tt.filename); got != tt.want {
			t.Errorf("safeExt(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
