// Package files is the file-system collaborator for exports: writes
// into a configured downloads directory and answers size queries.
package files

import (
	"fmt"
	"os"
	"path/filepath"
)

type Store struct {
	downloadsDir string
}

func NewStore(downloadsDir string) *Store {
	return &Store{downloadsDir: downloadsDir}
}

// SaveToDownloads writes content under the downloads directory and
// returns the full path. The filename is flattened to its base so a
// crafted name can never escape the directory.
func (s *Store) SaveToDownloads(filename string, content []byte) (string, error) {
	if err := os.MkdirAll(s.downloadsDir, 0755); err != nil {
		return "", fmt.Errorf("create downloads directory: %w", err)
	}

	path := filepath.Join(s.downloadsDir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

func (s *Store) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat export file: %w", err)
	}
	return info.Size(), nil
}

func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete export file: %w", err)
	}
	return nil
}
