package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kgview/internal/modules/graph/domain"
	apperrors "kgview/internal/platform/errors"
)

type FileTreeSource struct {
	codec TreeCodec
}

func NewFileTreeSource(codec TreeCodec) FileTreeSource {
	return FileTreeSource{codec: codec}
}

func (s FileTreeSource) Supports(source string) bool {
	if strings.Contains(source, "://") || strings.HasPrefix(source, sqliteScheme) {
		return false
	}
	format, ok := FormatOf(filepath.Ext(source))
	return ok && format != ""
}

func (s FileTreeSource) Fetch(ctx context.Context, source string) (domain.RawTree, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTree{}, err
	}
	path, err := filepath.Abs(source)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("resolve %s: %w", source, err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.RawTree{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, source)
	}
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("read tree: %w", err)
	}
	value, err := s.codec.Decode(path, data)
	if err != nil {
		return domain.RawTree{}, fmt.Errorf("%s: %w", source, err)
	}
	return domain.RawTree{Key: path, Digest: domain.Digest(data), Value: value}, nil
}

// FileArtifactStore writes exported files, creating parent directories.
// Relative paths resolve against dir.
type FileArtifactStore struct {
	dir string
}

func NewFileArtifactStore(dir string) FileArtifactStore {
	return FileArtifactStore{dir: dir}
}

func (s FileArtifactStore) Save(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: output path is required", apperrors.ErrInvalidInput)
	}
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".kgview-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move %s: %w", path, err)
	}
	return path, nil
}
