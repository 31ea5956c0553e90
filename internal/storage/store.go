// Package storage persists uploaded result files on local disk. Files are
// laid out per user and content-addressed metadata (SHA-256, size) is
// captured at write time so the database row can verify the blob later.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lineage-health/platform/internal/shared/types"
)

// StoredFile describes a blob after it has been written.
type StoredFile struct {
	Path string // relative to the store root
	Hash string // SHA-256, hex
	Size int64  // bytes
}

// Store writes and reads result files under a single root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Store{root: dir}, nil
}

// Save writes the content to a new file under the user's directory and
// returns the stored path, hash, and size. The original filename only
// contributes its extension; the stored name is timestamp-based.
func (s *Store) Save(userID types.ID, filename string, content io.Reader) (*StoredFile, error) {
	userDir := filepath.Join(s.root, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user directory: %w", err)
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), safeExt(filename))
	fullPath := filepath.Join(userDir, name)

	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hash), content)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &StoredFile{
		Path: filepath.Join(userID.String(), name),
		Hash: hex.EncodeToString(hash.Sum(nil)),
		Size: size,
	}, nil
}

// Open opens a stored file by its relative path. The path is validated to
// stay inside the store root.
func (s *Store) Open(path string) (*os.File, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes storage root")
	}
	return full, nil
}

// safeExt returns the extension of the original filename, restricted to a
// short alphanumeric suffix so stored names stay predictable.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) == 0 || len(ext) > 8 {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
