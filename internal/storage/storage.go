package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage writes uploaded blobs under a single root, keyed by file id.
// Refs handed out to the rest of the system are paths relative to the
// root; Open refuses anything that would escape it.
type Storage struct {
	rootAbs string
}

func New(root string) (*Storage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{rootAbs: rootAbs}, nil
}

func (s *Storage) RootAbs() string {
	return s.rootAbs
}

// Save streams reader to disk under the given id and returns the
// storage ref. Writes go through a temp file and rename so a failed
// upload never leaves a partial blob at the final ref.
func (s *Storage) Save(id string, reader io.Reader) (string, int64, error) {
	ref := filepath.Join(id[:2], id)

	final, err := s.resolve(ref)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return "", 0, fmt.Errorf("create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(final), ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp blob: %w", err)
	}

	written, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("finalize blob: %w", err)
	}

	return ref, written, nil
}

func (s *Storage) Open(ref string) (*os.File, os.FileInfo, error) {
	resolved, err := s.resolve(ref)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	return file, info, nil
}

func (s *Storage) Remove(ref string) error {
	resolved, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %q: %w", ref, err)
	}

	return nil
}

func (s *Storage) resolve(ref string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(ref))
	if cleaned == "" || cleaned == "." || strings.Contains(cleaned, "\x00") {
		return "", fmt.Errorf("invalid storage ref %q", ref)
	}

	resolved := filepath.Join(s.rootAbs, cleaned)
	if resolved != s.rootAbs && !strings.HasPrefix(resolved, s.rootAbs+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage ref %q escapes root", ref)
	}

	return resolved, nil
}
