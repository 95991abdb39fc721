package local

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopkeeper-dev/storefront-backend/pkg/config"
)

// Store writes uploaded blobs to a directory on local disk. Saved paths are
// relative to the root so they can be served or deleted later.
type Store struct {
	root string
}

// NewStore ensures the storage root exists and returns a Store bound to it.
func NewStore(cfg config.StorageConfig) (*Store, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Put streams the reader into <root>/<namespace>/<uuid><ext> and returns the
// relative path. The original filename only contributes its extension.
func (s *Store) Put(namespace, filename string, r io.Reader) (string, error) {
	namespace = sanitizeNamespace(namespace)
	if namespace == "" {
		return "", fmt.Errorf("storage namespace is required")
	}

	dir := filepath.Join(s.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating storage dir %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext
	fullPath := filepath.Join(dir, name)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("creating blob %s: %w", fullPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("writing blob %s: %w", fullPath, err)
	}

	return filepath.ToSlash(filepath.Join(namespace, name)), nil
}

// Delete removes a stored blob. A missing file is not an error so callers can
// replace images whose blob was already cleaned up.
func (s *Store) Delete(relPath string) error {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("deleting blob %s: %w", relPath, err)
	}
	return nil
}

// Exists reports whether a stored blob is present on disk.
func (s *Store) Exists(relPath string) (bool, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve joins a relative blob path to the root, refusing paths that escape it.
func (s *Store) resolve(relPath string) (string, error) {
	relPath = strings.TrimSpace(relPath)
	if relPath == "" {
		return "", fmt.Errorf("blob path is required")
	}
	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("blob path %q escapes storage root", relPath)
	}
	return filepath.Join(s.root, cleaned), nil
}

func sanitizeNamespace(namespace string) string {
	namespace = strings.Trim(strings.TrimSpace(namespace), "/")
	if strings.Contains(namespace, "..") {
		return ""
	}
	return namespace
}
