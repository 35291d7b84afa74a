package stores

import (
	"bytes"
	"context"
	"fmt"

	"log-report/internal/shared/filestorages"
)

// ReportStore publishes rendered reports. A report with the same name is replaced
// atomically, readers never observe a partially written report.
//
//go:generate mockgen -source=report_store.go -destination=./mocks/report_store_mock.go -package=mocks
type ReportStore interface {
	Put(ctx context.Context, name string, content []byte) (string, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
}

func NewReportStore(fileStorage filestorages.FileStorage) ReportStore {
	return &reportStore{fileStorage: fileStorage}
}

// Put writes the report and returns its key.
func (s *reportStore) Put(ctx context.Context, name string, content []byte) (string, error) {
	result, err := s.fileStorage.Put(ctx, name, bytes.NewReader(content), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return "", fmt.Errorf("failed to put report %q: %w", name, err)
	}
	return result.FileKey, nil
}
