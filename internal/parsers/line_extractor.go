package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"log-report/internal/models"
)

// Example line:
//
//	1.196.116.32 -  - [29/Jun/2017:03:50:22 +0300] "GET /api/v2/banner/25019354 HTTP/1.1" 200 927 "-" "Lynx/2.8.8dev.9 libwww-FM/2.14 SSL-MM/1.4.1 GNUTLS/2.10.5" "-" "1498697422-2190034393-4708-9752759" "dc7161be3" 0.390
//
// The URL runs from the method to the first "?" or "HTTP"; the request time is the
// last whitespace-delimited field.
var (
	urlTimePattern = regexp.MustCompile(
		`^.*?(?:GET|POST|PUT|DELETE|HEAD|CONNECT|OPTIONS|TRACE)(?P<url>.+?)(?:\?|HTTP).+ (?P<time>[0-9.]+)\s*$`)
	userAgentPattern = regexp.MustCompile(`"[^"]*" \d{3} \S+ "[^"]*" "(?P<agent>[^"]*)"`)

	urlGroup   = urlTimePattern.SubexpIndex("url")
	timeGroup  = urlTimePattern.SubexpIndex("time")
	agentGroup = userAgentPattern.SubexpIndex("agent")
)

// ParseError describes a line that does not follow the access log grammar.
// It is recovered by the caller: the line is logged and skipped.
type ParseError struct {
	LineIndex int
	RawLine   string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.LineIndex, e.Reason)
}

type LineExtractor interface {
	// Extract parses one raw line. lineIndex is the zero-based position of the line
	// in its source and is only used for error attribution.
	Extract(lineIndex int, line string) (*models.LogRecord, error)
}

type lineExtractor struct{}

func NewLineExtractor() LineExtractor {
	return &lineExtractor{}
}

func (e *lineExtractor) Extract(lineIndex int, line string) (*models.LogRecord, error) {
	match := urlTimePattern.FindStringSubmatch(line)
	if match == nil {
		return nil, &ParseError{LineIndex: lineIndex, RawLine: line, Reason: "url_short not found"}
	}

	url := strings.TrimSpace(match[urlGroup])
	if url == "" {
		return nil, &ParseError{LineIndex: lineIndex, RawLine: line, Reason: "empty url"}
	}

	requestTime, err := strconv.ParseFloat(match[timeGroup], 64)
	if err != nil {
		return nil, &ParseError{LineIndex: lineIndex, RawLine: line, Reason: fmt.Sprintf("invalid request time %q", match[timeGroup])}
	}

	record := &models.LogRecord{
		URLPath:     url,
		RequestTime: requestTime,
	}
	if agentMatch := userAgentPattern.FindStringSubmatch(line); agentMatch != nil {
		record.UserAgent = agentMatch[agentGroup]
	}
	return record, nil
}
