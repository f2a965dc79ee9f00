package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/ports"
)

// Source implements ports.DocumentSource over a directory.
// Keys are slash-separated paths relative to BasePath, without the extension.
type Source struct {
	BasePath  string
	Extension string
}

// New creates a Source reading "*.xml" files below basePath.
// If basePath is empty, it defaults to the current directory.
func New(basePath string, opts ...Option) *Source {
	if basePath == "" {
		basePath = "."
	}
	s := &Source{BasePath: basePath, Extension: ".xml"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a file Source.
type Option func(*Source)

// WithExtension changes the document extension (e.g. ".yaml").
func WithExtension(ext string) Option {
	return func(s *Source) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.Extension = ext
	}
}

func (s *Source) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid document key %q", key)
	}
	return filepath.Join(s.BasePath, clean+s.Extension), nil
}

// Fetch reads the file for key.
func (s *Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrDocumentNotFound, key)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", key, err)
	}
	return data, nil
}

// List walks BasePath and returns the key of every file with the configured extension.
func (s *Source) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != s.Extension {
			return nil
		}
		rel, err := filepath.Rel(s.BasePath, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(strings.TrimSuffix(rel, s.Extension)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
