package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"log-report/internal/models"
	"log-report/internal/shared/filestorages"
)

var (
	ErrPartialResultAlreadyExist = errors.New("partial result already exists")
	ErrPartialResultNotFound     = errors.New("partial result not found")
)

// PartialResultStore keeps the file-local result of every source of one run, so a
// report can be traced back to what each source contributed. Keys are scoped by run ID;
// writing the same source twice within a run is rejected.
//
//go:generate mockgen -source=partial_result_store.go -destination=./mocks/partial_result_store_mock.go -package=mocks
type PartialResultStore interface {
	Put(ctx context.Context, result *models.AggregationResult) error
	Get(ctx context.Context, source string) (*models.AggregationResult, error)
}

type partialResultStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

func NewPartialResultStore(fileStorage filestorages.FileStorage, runID string) PartialResultStore {
	return &partialResultStore{fileStorage: fileStorage, dir: "partials/" + runID}
}

func (s *partialResultStore) Put(ctx context.Context, result *models.AggregationResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal partial result: %w", err)
	}

	_, err = s.fileStorage.Put(ctx, s.getKey(result.Source), bytes.NewReader(jsonData), filestorages.PutOptions{AllowOverwrite: false})
	if err != nil {
		if errors.Is(err, filestorages.ErrFileAlreadyExists) {
			return ErrPartialResultAlreadyExist
		}
		return fmt.Errorf("failed to put partial result: %w", err)
	}
	return nil
}

func (s *partialResultStore) Get(ctx context.Context, source string) (*models.AggregationResult, error) {
	readCloser, err := s.fileStorage.Get(ctx, s.getKey(source))
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrPartialResultNotFound
		}
		return nil, fmt.Errorf("failed to get partial result: %w", err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read partial result: %w", err)
	}
	var result models.AggregationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal partial result: %w", err)
	}
	return &result, nil
}

func (s *partialResultStore) getKey(source string) string {
	return fmt.Sprintf("%s/%s.json", s.dir, source)
}
