package sources

import (
	"context"
	"errors"
	"fmt"
	"io"

	"log-report/internal/shared/filestorages"
)

var ErrNoSources = errors.New("no sources found")

// Source is one gzip-compressed access log.
type Source interface {
	// Name identifies the source in logs, failures and partial result keys.
	Name() string
	// Open returns the compressed byte stream. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

type storageSource struct {
	storage filestorages.FileStorage
	key     string
}

// NewStorageSource returns a Source reading key from storage.
func NewStorageSource(storage filestorages.FileStorage, key string) Source {
	return &storageSource{storage: storage, key: key}
}

func (s *storageSource) Name() string { return s.key }

func (s *storageSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.storage.Get(ctx, s.key)
}

// Discover resolves the sources of a report build. Explicit keys are used as given,
// in order; without keys, every file matching pattern is used.
func Discover(ctx context.Context, storage filestorages.FileStorage, keys []string, pattern string) ([]Source, error) {
	if len(keys) == 0 {
		matched, err := storage.Glob(ctx, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to discover sources with pattern %q: %w", pattern, err)
		}
		keys = matched
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: pattern %q", ErrNoSources, pattern)
	}

	seen := make(map[string]bool, len(keys))
	result := make([]Source, 0, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, NewStorageSource(storage, key))
	}
	return result, nil
}
