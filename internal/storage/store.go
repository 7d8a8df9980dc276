package storage

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================
// 📦 Local File Store
//
// Uploads land under BaseDir and are referenced everywhere else by a
// "/uploads/..." URI, which cmd/main.go serves as static files. Deletion is
// best-effort: a missing or locked file is logged and skipped, never
// surfaced to the caller.

const publicPrefix = "/uploads/"

type LocalStore struct {
	BaseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		log.Printf("⚠️ Could not create upload directory %s: %v", baseDir, err)
	}
	return &LocalStore{BaseDir: baseDir}
}

// Save writes an uploaded file into subdir with a random name and returns
// its public URI.
func (s *LocalStore) Save(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext

	dir := filepath.Join(s.BaseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}

	return publicPrefix + subdir + "/" + name, nil
}

// Delete removes stored files by their public URIs. Failures are logged and
// skipped.
func (s *LocalStore) Delete(refs []string) error {
	for _, ref := range refs {
		path, ok := s.localPath(ref)
		if !ok {
			log.Printf("⚠️ Skipping non-local file reference during cleanup: %s", ref)
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to delete stored file %s: %v", ref, err)
			continue
		}
	}
	return nil
}

// localPath maps a public URI back onto BaseDir, rejecting anything that
// escapes it.
func (s *LocalStore) localPath(ref string) (string, bool) {
	if !strings.HasPrefix(ref, publicPrefix) {
		return "", false
	}
	rel := filepath.Clean(strings.TrimPrefix(ref, publicPrefix))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.Join(s.BaseDir, rel), true
}
