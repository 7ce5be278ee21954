package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// Ensure FileStore implements the SecretStore interface.
var _ driven.SecretStore = (*FileStore)(nil)

// FileStore serves secrets from a directory of <ref>.json files.
// References may contain slashes, which map to subdirectories.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("secret directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secret directory %q is not a directory: %w", dir, domain.ErrInvalidInput)
	}
	return &FileStore{dir: dir}, nil
}

// GetSecret reads <dir>/<ref>.json.
func (s *FileStore) GetSecret(_ context.Context, secretRef string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(secretRef))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("secret reference %q: %w", secretRef, domain.ErrInvalidInput)
	}

	path := filepath.Join(s.dir, clean+".json")
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("secret %q: %w", secretRef, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read secret %q: %w", secretRef, err)
	}
	return blob, nil
}
