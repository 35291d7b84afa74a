package aggregators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"log-report/internal/ingestors"
	ingestormocks "log-report/internal/ingestors/mocks"
	"log-report/internal/models"
	"log-report/internal/parsers"
	"log-report/internal/shared/filestorages"
	"log-report/internal/shared/svcerrors"
	"log-report/internal/sources"
	storemocks "log-report/internal/stores/mocks"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func accessLine(url string, requestTime float64) string {
	return fmt.Sprintf(`1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "GET %s HTTP/1.1" 200 927 "-" "curl/7.68.0" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" %.3f`,
		url, requestTime)
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

func newSources(t *testing.T, files map[string][]byte, order ...string) []sources.Source {
	t.Helper()

	storage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	for key, data := range files {
		_, err := storage.Put(context.Background(), key, bytes.NewReader(data), filestorages.PutOptions{})
		require.NoError(t, err)
	}

	srcs := make([]sources.Source, 0, len(order))
	for _, key := range order {
		srcs = append(srcs, sources.NewStorageSource(storage, key))
	}
	return srcs
}

func newCollector(opts CollectorOptions) ParallelCollector {
	return NewParallelCollector(ingestors.NewFileAggregator(parsers.NewLineExtractor()), opts)
}

func TestParallelCollector_Collect_TwoFiles(t *testing.T) {
	t.Parallel()

	srcs := newSources(t, map[string][]byte{
		"file1.gz": gzipLines(t,
			accessLine("/a", 0.1),
			accessLine("/a", 0.2),
			"malformed garbage",
			accessLine("/b", 0.5),
			accessLine("/a", 0.3),
		),
		"file2.gz": gzipLines(t, accessLine("/a", 0.4)),
	}, "file1.gz", "file2.gz")

	collection, err := newCollector(CollectorOptions{Workers: 2}).Collect(context.Background(), srcs)
	require.NoError(t, err)
	require.Empty(t, collection.Failures)

	result := collection.Result
	assert.Equal(t, []string{"/a", "/b"}, result.Order)
	assert.Equal(t, int64(5), result.Totals.TotalRequests)
	assert.InDelta(t, 1.5, result.Totals.TotalTime, 1e-9)
	assert.Equal(t, int64(1), result.SkippedLines)

	statA := result.Stats["/a"]
	assert.Equal(t, int64(4), statA.Count)
	assert.InDelta(t, 1.0, statA.TotalTime, 1e-9)
	avg, err := models.Average(statA)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, avg, 1e-9)
	median, err := models.Median(statA)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, median, 1e-9)
	maxTime, err := models.Max(statA)
	require.NoError(t, err)
	assert.Equal(t, 0.4, maxTime)

	statB := result.Stats["/b"]
	assert.Equal(t, int64(1), statB.Count)
	assert.InDelta(t, 0.5, statB.TotalTime, 1e-9)

	assert.InDelta(t, 80.0, models.SharePercentOfRequests(statA, result.Totals), 1e-9)
	assert.InDelta(t, 20.0, models.SharePercentOfRequests(statB, result.Totals), 1e-9)
	assert.InDelta(t, 100.0,
		models.SharePercentOfTime(statA, result.Totals)+models.SharePercentOfTime(statB, result.Totals), 1e-9)
}

func TestParallelCollector_Collect_ManySourcesSmallPool(t *testing.T) {
	t.Parallel()

	files := make(map[string][]byte)
	var order []string
	for i := 0; i < 12; i++ {
		key := fmt.Sprintf("nginx-access-ui.log%d.gz", i)
		files[key] = gzipLines(t, accessLine("/a", 0.1), accessLine(fmt.Sprintf("/only/%d", i), 0.2))
		order = append(order, key)
	}

	collection, err := newCollector(CollectorOptions{Workers: 3}).Collect(context.Background(), newSources(t, files, order...))
	require.NoError(t, err)

	result := collection.Result
	assert.Equal(t, int64(12), result.Stats["/a"].Count)
	assert.Len(t, result.Stats, 13)
	assert.Equal(t, int64(24), result.Totals.TotalRequests)

	// URL order follows source order regardless of completion order
	assert.Equal(t, "/a", result.Order[0])
	for i := 0; i < 12; i++ {
		assert.Equal(t, fmt.Sprintf("/only/%d", i), result.Order[i+1])
	}

	var countShare, timeShare float64
	for _, stat := range result.Stats {
		countShare += models.SharePercentOfRequests(stat, result.Totals)
		timeShare += models.SharePercentOfTime(stat, result.Totals)
	}
	assert.InDelta(t, 100.0, countShare, 1e-9)
	assert.InDelta(t, 100.0, timeShare, 1e-9)
}

func TestParallelCollector_Collect_BadSourceDoesNotAffectSiblings(t *testing.T) {
	t.Parallel()

	srcs := newSources(t, map[string][]byte{
		"good.gz":   gzipLines(t, accessLine("/a", 0.1), accessLine("/b", 0.3)),
		"broken.gz": []byte("this is not gzip"),
	}, "broken.gz", "good.gz", "missing.gz")

	collection, err := newCollector(CollectorOptions{Workers: 2}).Collect(context.Background(), srcs)
	require.NoError(t, err)

	require.Len(t, collection.Failures, 2)
	assert.Equal(t, "broken.gz", collection.Failures[0].Source)
	assert.Equal(t, "missing.gz", collection.Failures[1].Source)
	svcErr, ok := svcerrors.AsServiceError(collection.Failures[0].Err)
	require.True(t, ok)
	assert.Equal(t, "ING_9001", svcErr.Code)

	result := collection.Result
	assert.Equal(t, []string{"/a", "/b"}, result.Order)
	assert.Equal(t, int64(2), result.Totals.TotalRequests)
}

func TestParallelCollector_Collect_PanicBecomesFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	good := sources.NewStorageSource(nil, "good.gz")
	bad := sources.NewStorageSource(nil, "bad.gz")

	fileAggregator := ingestormocks.NewMockFileAggregator(ctrl)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), good).Return(resultOf("good.gz", observation{"/a", 0.1}), nil)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), bad).DoAndReturn(
		func(ctx context.Context, source sources.Source) (*models.AggregationResult, error) {
			panic("nil map write")
		})

	collection, err := NewParallelCollector(fileAggregator, CollectorOptions{Workers: 2}).
		Collect(context.Background(), []sources.Source{good, bad})
	require.NoError(t, err)

	require.Len(t, collection.Failures, 1)
	svcErr, ok := svcerrors.AsServiceError(collection.Failures[0].Err)
	require.True(t, ok)
	assert.Equal(t, "SYS_9000", svcErr.Code)
	assert.Equal(t, int64(1), collection.Result.Totals.TotalRequests)
}

func TestParallelCollector_Collect_SourceTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	fast := sources.NewStorageSource(nil, "fast.gz")
	hung := sources.NewStorageSource(nil, "hung.gz")

	fileAggregator := ingestormocks.NewMockFileAggregator(ctrl)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), fast).Return(resultOf("fast.gz", observation{"/a", 0.2}), nil)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), hung).DoAndReturn(
		func(ctx context.Context, source sources.Source) (*models.AggregationResult, error) {
			// ignores ctx, like a read blocked on a dead network mount
			<-release
			return resultOf("hung.gz", observation{"/late", 1.0}), nil
		})

	collection, err := NewParallelCollector(fileAggregator, CollectorOptions{Workers: 2, SourceTimeout: 50 * time.Millisecond}).
		Collect(context.Background(), []sources.Source{fast, hung})
	require.NoError(t, err)

	require.Len(t, collection.Failures, 1)
	assert.Equal(t, "hung.gz", collection.Failures[0].Source)
	svcErr, ok := svcerrors.AsServiceError(collection.Failures[0].Err)
	require.True(t, ok)
	assert.Equal(t, "AGG_9001", svcErr.Code)
	assert.ErrorIs(t, collection.Failures[0].Err, context.DeadlineExceeded)

	assert.NotContains(t, collection.Result.Stats, "/late")
	assert.Equal(t, int64(1), collection.Result.Totals.TotalRequests)
}

func TestParallelCollector_Collect_Cancelled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fileAggregator := ingestormocks.NewMockFileAggregator(ctrl)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), gomock.Any()).
		Return(resultOf("x.gz", observation{"/a", 0.1}), nil).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collection, err := NewParallelCollector(fileAggregator, CollectorOptions{Workers: 1}).
		Collect(ctx, []sources.Source{sources.NewStorageSource(nil, "x.gz")})
	assert.Nil(t, collection)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParallelCollector_Collect_CancelledMidwayReportsNoSourceFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{}, 2)
	fileAggregator := ingestormocks.NewMockFileAggregator(ctrl)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, source sources.Source) (*models.AggregationResult, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		}).Times(2)

	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(zerolog.New(&logs).WithContext(context.Background()))
	go func() {
		<-started
		<-started
		cancel()
	}()

	collection, err := NewParallelCollector(fileAggregator, CollectorOptions{Workers: 2}).
		Collect(ctx, []sources.Source{sources.NewStorageSource(nil, "a.gz"), sources.NewStorageSource(nil, "b.gz")})
	assert.Nil(t, collection)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, logs.String(), "source failed")
}

func TestParallelCollector_Collect_MergeInconsistencyIsFatal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	corrupt := resultOf("corrupt.gz", observation{"/a", 0.1})
	corrupt.Totals.TotalRequests = 7

	fileAggregator := ingestormocks.NewMockFileAggregator(ctrl)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), gomock.Any()).Return(corrupt, nil)

	collection, err := NewParallelCollector(fileAggregator, CollectorOptions{Workers: 1}).
		Collect(context.Background(), []sources.Source{sources.NewStorageSource(nil, "corrupt.gz")})
	assert.Nil(t, collection)

	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "AGG_9000", svcErr.Code)
	assert.True(t, svcErr.IsFatal())
}

func TestParallelCollector_Collect_KeepsPartials(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := sources.NewStorageSource(nil, "first.gz")
	second := sources.NewStorageSource(nil, "second.gz")
	firstResult := resultOf("first.gz", observation{"/a", 0.1})
	secondResult := resultOf("second.gz", observation{"/b", 0.2})

	fileAggregator := ingestormocks.NewMockFileAggregator(ctrl)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), first).Return(firstResult, nil)
	fileAggregator.EXPECT().Aggregate(gomock.Any(), second).Return(secondResult, nil)

	partialStore := storemocks.NewMockPartialResultStore(ctrl)
	partialStore.EXPECT().Put(gomock.Any(), firstResult).Return(nil)
	partialStore.EXPECT().Put(gomock.Any(), secondResult).Return(errors.New("disk full"))

	collection, err := NewParallelCollector(fileAggregator, CollectorOptions{Workers: 2, PartialStore: partialStore}).
		Collect(context.Background(), []sources.Source{first, second})
	require.NoError(t, err)

	// a partial that cannot be kept does not drop the source from the report
	assert.Empty(t, collection.Failures)
	assert.Equal(t, int64(2), collection.Result.Totals.TotalRequests)
}
