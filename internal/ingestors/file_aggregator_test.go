package ingestors

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"log-report/internal/parsers"
	"log-report/internal/shared/filestorages"
	"log-report/internal/shared/svcerrors"
	"log-report/internal/sources"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeUA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	curlUA    = "curl/7.68.0"
)

func accessLine(method, url, ua string, requestTime string) string {
	return fmt.Sprintf(`1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "%s %s HTTP/1.1" 200 927 "-" "%s" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" %s`,
		method, url, ua, requestTime)
}

func gzipLines(t *testing.T, lines ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	_, err := writer.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func newStorageWith(t *testing.T, files map[string][]byte) filestorages.FileStorage {
	t.Helper()

	storage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	for key, data := range files {
		_, err := storage.Put(context.Background(), key, bytes.NewReader(data), filestorages.PutOptions{})
		require.NoError(t, err)
	}
	return storage
}

func TestFileAggregator_Aggregate_FoldsLinesInOrder(t *testing.T) {
	t.Parallel()

	storage := newStorageWith(t, map[string][]byte{
		"access.log.gz": gzipLines(t,
			accessLine("GET", "/b", chromeUA, "0.5"),
			accessLine("GET", "/a?x=1", firefoxUA, "0.1"),
			"malformed garbage",
			accessLine("POST", "/a", chromeUA, "0.2"),
			accessLine("GET", "/a", curlUA, "0.3"),
		),
	})

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	aggregator := NewFileAggregator(parsers.NewLineExtractor())
	result, err := aggregator.Aggregate(ctx, sources.NewStorageSource(storage, "access.log.gz"))
	require.NoError(t, err)

	assert.Equal(t, "access.log.gz", result.Source)
	assert.Equal(t, []string{"/b", "/a"}, result.Order)
	assert.Equal(t, int64(4), result.ParsedLines)
	assert.Equal(t, int64(1), result.SkippedLines)

	require.Contains(t, result.Stats, "/a")
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, result.Stats["/a"].Samples)
	assert.Equal(t, int64(3), result.Stats["/a"].Count)
	assert.Equal(t, int64(1), result.Stats["/b"].Count)

	// totals invariant holds for the file-local scope
	var count int64
	var total float64
	for _, stat := range result.Stats {
		count += stat.Count
		total += stat.TotalTime
	}
	assert.Equal(t, count, result.Totals.TotalRequests)
	assert.InDelta(t, total, result.Totals.TotalTime, 1e-12)

	assert.Equal(t, map[string]int64{"Chrome": 2, "Firefox": 1, "curl": 1}, result.RequestsByAgent)

	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), `"line_index":2`)
	assert.Contains(t, logs.String(), `"raw_line":"malformed garbage"`)
	assert.Contains(t, logs.String(), `"reason":"url_short not found"`)
}

func TestFileAggregator_Aggregate_OnlyMalformedLines(t *testing.T) {
	t.Parallel()

	storage := newStorageWith(t, map[string][]byte{
		"garbage.gz": gzipLines(t, "malformed garbage", "still garbage"),
	})

	aggregator := NewFileAggregator(parsers.NewLineExtractor())
	result, err := aggregator.Aggregate(context.Background(), sources.NewStorageSource(storage, "garbage.gz"))
	require.NoError(t, err)

	assert.Empty(t, result.Stats)
	assert.Empty(t, result.Order)
	assert.Zero(t, result.Totals.TotalRequests)
	assert.Zero(t, result.Totals.TotalTime)
	assert.Equal(t, int64(2), result.SkippedLines)
}

func TestFileAggregator_Aggregate_OversizedLineIsSkipped(t *testing.T) {
	t.Parallel()

	oversized := "junk " + strings.Repeat("x", 2*maxLineBytes)
	storage := newStorageWith(t, map[string][]byte{
		"access.log.gz": gzipLines(t,
			accessLine("GET", "/a", curlUA, "0.1"),
			oversized,
			accessLine("GET", "/b", curlUA, "0.2"),
		),
	})

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())

	aggregator := NewFileAggregator(parsers.NewLineExtractor())
	result, err := aggregator.Aggregate(ctx, sources.NewStorageSource(storage, "access.log.gz"))
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b"}, result.Order)
	assert.Equal(t, int64(2), result.ParsedLines)
	assert.Equal(t, int64(1), result.SkippedLines)
	assert.Equal(t, int64(2), result.Totals.TotalRequests)

	assert.Contains(t, logs.String(), `"line_index":1`)
	assert.Contains(t, logs.String(), `"raw_line":"junk xxx`)
	assert.Contains(t, logs.String(), `"reason":"line longer than 1048576 bytes"`)
	assert.Less(t, logs.Len(), maxLineBytes, "oversized line is not logged in full")
}

func TestReadLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("y", 100)
	input := "first\r\n" + long + "\n\nlast without newline"
	reader := bufio.NewReaderSize(strings.NewReader(input), 16)

	type readResult struct {
		line      string
		oversized bool
	}
	var got []readResult
	for {
		line, oversized, err := readLine(reader, 64)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, readResult{line: line, oversized: oversized})
	}

	assert.Equal(t, []readResult{
		{line: "first"},
		{line: long, oversized: true},
		{line: ""},
		{line: "last without newline"},
	}, got)
}

func TestFileAggregator_Aggregate_SourceErrors(t *testing.T) {
	t.Parallel()

	valid := gzipLines(t, strings.Repeat(accessLine("GET", "/a", curlUA, "0.1")+"\n", 200))

	storage := newStorageWith(t, map[string][]byte{
		"plain.gz":     []byte(accessLine("GET", "/a", curlUA, "0.1")),
		"truncated.gz": valid[:len(valid)/2],
	})

	tests := []struct {
		name string
		key  string
		code string
	}{
		{name: "missing source", key: "missing.gz", code: "ING_9000"},
		{name: "not gzip", key: "plain.gz", code: "ING_9001"},
		{name: "truncated gzip", key: "truncated.gz", code: "ING_9001"},
	}

	aggregator := NewFileAggregator(parsers.NewLineExtractor())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := aggregator.Aggregate(context.Background(), sources.NewStorageSource(storage, tt.key))
			assert.Nil(t, result)

			svcErr, ok := svcerrors.AsServiceError(err)
			require.True(t, ok, "expected ServiceError, got %v", err)
			assert.Equal(t, tt.code, svcErr.Code)
			assert.Equal(t, "source_read", svcErr.Category)
		})
	}
}

func TestFileAggregator_Aggregate_Cancelled(t *testing.T) {
	t.Parallel()

	storage := newStorageWith(t, map[string][]byte{
		"access.log.gz": gzipLines(t, accessLine("GET", "/a", curlUA, "0.1")),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	aggregator := NewFileAggregator(parsers.NewLineExtractor())
	result, err := aggregator.Aggregate(ctx, sources.NewStorageSource(storage, "access.log.gz"))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAgentFamily(t *testing.T) {
	t.Parallel()

	cache := make(map[string]string)

	assert.Equal(t, "", agentFamily(cache, ""))
	assert.Equal(t, "Chrome", agentFamily(cache, chromeUA))
	assert.Equal(t, "Chrome", cache[chromeUA])
	assert.Equal(t, "curl", agentFamily(cache, curlUA))
}
