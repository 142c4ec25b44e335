package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileNoteStore keeps roadmap notes as markdown files. Relative paths are
// resolved against Dir.
type FileNoteStore struct {
	Dir string
}

func NewFileNoteStore(dir string) FileNoteStore {
	return FileNoteStore{Dir: dir}
}

func (s FileNoteStore) resolve(path string) string {
	if filepath.IsAbs(path) || s.Dir == "" {
		return path
	}
	return filepath.Join(s.Dir, path)
}

func (s FileNoteStore) Read(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(s.resolve(path))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read note: %w", err)
	}
	return string(data), nil
}

func (s FileNoteStore) Write(_ context.Context, path, content string) (string, error) {
	target := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create note dir: %w", err)
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("replace note: %w", err)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return target, nil
	}
	return abs, nil
}
