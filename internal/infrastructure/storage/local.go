// Package storage implements the image file store on the local disk.
package storage

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// publicPrefix is the path prefix recorded on posts and served statically.
const publicPrefix = "/uploads/"

// LocalStore saves uploaded images under a base directory and exposes them
// under /uploads/. Stored paths are opaque to everything but this package.
type LocalStore struct {
	baseDir string
	log     zerolog.Logger
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir string, log zerolog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir, log: log}, nil
}

// Save streams the content to a randomly named file, keeping the original
// extension, and returns the public path.
func (s *LocalStore) Save(filename string, r io.Reader) (string, error) {
	name := randomName() + strings.ToLower(filepath.Ext(filename))

	f, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	return publicPrefix + name, nil
}

// Delete removes the file behind a public path. Best-effort: failures are
// logged and reported as false, never propagated.
func (s *LocalStore) Delete(path string) bool {
	name := strings.TrimPrefix(path, publicPrefix)
	// Stored names never contain separators; anything else is rejected.
	if !strings.HasPrefix(path, publicPrefix) || name == "" || name != filepath.Base(name) {
		s.log.Warn().Str("path", path).Msg("refusing to delete file outside upload dir")
		return false
	}

	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove image file")
		return false
	}
	return true
}

// BaseDir returns the directory files are stored in, for static serving.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func randomName() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", os.Getpid())
	}
	return fmt.Sprintf("%x", b)
}
