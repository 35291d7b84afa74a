package ingestors

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"log-report/internal/models"
	"log-report/internal/parsers"
	"log-report/internal/shared/loggers"
	"log-report/internal/shared/metrics"
	"log-report/internal/shared/svcerrors"
	"log-report/internal/sources"

	"github.com/klauspost/compress/gzip"
	"github.com/mileusna/useragent"
)

const (
	initialLineBytes = 64 * 1024
	maxLineBytes     = 1024 * 1024
	ctxCheckEvery    = 1024 // lines between cancellation checks
	rawLinePreview   = 256  // bytes of an oversized line kept for the log
	unknownAgent     = "unknown"
)

//go:generate mockgen -source=file_aggregator.go -destination=./mocks/file_aggregator_mock.go -package=mocks
type FileAggregator interface {
	// Aggregate reads one gzip-compressed source in a single pass and returns its
	// file-local result. Unparseable lines are logged and skipped.
	Aggregate(ctx context.Context, source sources.Source) (*models.AggregationResult, error)
}

type fileAggregator struct {
	lineExtractor parsers.LineExtractor
}

func NewFileAggregator(lineExtractor parsers.LineExtractor) FileAggregator {
	return &fileAggregator{lineExtractor: lineExtractor}
}

func (a *fileAggregator) Aggregate(ctx context.Context, source sources.Source) (*models.AggregationResult, error) {
	result, svcErr := a.aggregate(ctx, source)
	if svcErr != nil {
		metricSourceAggregatedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metricLinesTotal.WithLabelValues(metrics.OutcomeParsed).Add(float64(result.ParsedLines))
	metricLinesTotal.WithLabelValues(metrics.OutcomeSkipped).Add(float64(result.SkippedLines))
	metricSourceAggregatedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return result, nil
}

func (a *fileAggregator) aggregate(ctx context.Context, source sources.Source) (*models.AggregationResult, *svcerrors.ServiceError) {
	name := source.Name()
	logger := loggers.Ctx(ctx).With().Str(loggers.FieldSource, name).Logger()
	logger.Debug().Msg("started aggregating source")

	readCloser, err := source.Open(ctx)
	if err != nil {
		return nil, errSourceOpenFailed(name, err)
	}
	defer readCloser.Close()

	gzipReader, err := gzip.NewReader(readCloser)
	if err != nil {
		return nil, errSourceDecompressFailed(name, err)
	}
	defer gzipReader.Close()

	result := models.NewAggregationResult(name)
	agents := make(map[string]string)

	reader := bufio.NewReaderSize(gzipReader, initialLineBytes)
	for lineIndex := 0; ; lineIndex++ {
		if lineIndex%ctxCheckEvery == 0 && ctx.Err() != nil {
			return result, nil
		}

		line, oversized, err := readLine(reader, maxLineBytes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if isDecompressError(err) {
				return nil, errSourceDecompressFailed(name, err)
			}
			return nil, errSourceReadFailed(name, err)
		}

		if oversized {
			result.SkippedLines++
			logger.Warn().
				Int(loggers.FieldLineIndex, lineIndex).
				Str(loggers.FieldRawLine, line).
				Str(loggers.FieldReason, fmt.Sprintf("line longer than %d bytes", maxLineBytes)).
				Msg("skipped unparseable line")
			continue
		}

		record, err := a.lineExtractor.Extract(lineIndex, line)
		if err != nil {
			result.SkippedLines++
			event := logger.Warn().Int(loggers.FieldLineIndex, lineIndex).Str(loggers.FieldRawLine, line)
			var parseErr *parsers.ParseError
			if errors.As(err, &parseErr) {
				event = event.Str(loggers.FieldReason, parseErr.Reason)
			} else {
				event = event.Err(err)
			}
			event.Msg("skipped unparseable line")
			continue
		}

		result.Observe(record, agentFamily(agents, record.UserAgent))
	}

	logger.Debug().
		Int64("parsed_lines", result.ParsedLines).
		Int64("skipped_lines", result.SkippedLines).
		Int("urls", len(result.Stats)).
		Msg("finished aggregating source")
	return result, nil
}

// agentFamily normalizes a raw user agent to its browser or client family.
// Parsed families are memoized per source since agents repeat heavily in access logs.
func agentFamily(cache map[string]string, ua string) string {
	if ua == "" {
		return ""
	}
	if family, ok := cache[ua]; ok {
		return family
	}

	family := useragent.Parse(ua).Name
	if family == "" {
		// Fall back to the product token, e.g. "Configovod" or "Python-urllib/2.7" -> "Python-urllib"
		if fields := strings.Fields(ua); len(fields) > 0 {
			family, _, _ = strings.Cut(fields[0], "/")
		}
	}
	if family == "" || family == "-" {
		family = unknownAgent
	}
	cache[ua] = family
	return family
}

// readLine returns the next line without its line terminator. A line longer than
// maxBytes is drained from r and returned as its first rawLinePreview bytes with
// oversized set. io.EOF is returned only when no bytes remain.
func readLine(r *bufio.Reader, maxBytes int) (string, bool, error) {
	var buf []byte
	oversized := false
	for {
		chunk, err := r.ReadSlice('\n')
		switch {
		case oversized:
			buf = appendPreview(buf, chunk)
		case len(buf)+len(chunk) > maxBytes:
			oversized = true
			buf = appendPreview(buf[:min(len(buf), rawLinePreview)], chunk)
		default:
			buf = append(buf, chunk...)
		}

		switch {
		case err == nil:
			return trimLineEnd(buf), oversized, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if len(buf) == 0 && !oversized {
				return "", false, io.EOF
			}
			return trimLineEnd(buf), oversized, nil
		default:
			return "", false, err
		}
	}
}

func appendPreview(buf, chunk []byte) []byte {
	return append(buf, chunk[:min(len(chunk), max(rawLinePreview-len(buf), 0))]...)
}

func trimLineEnd(b []byte) string {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return string(bytes.TrimSuffix(b, []byte("\r")))
}

func isDecompressError(err error) bool {
	return errors.Is(err, gzip.ErrChecksum) ||
		errors.Is(err, gzip.ErrHeader) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
