package models

// LogRecord is the part of one access log line the report needs. It is produced by the
// line extractor and folded into a UrlStat immediately.
type LogRecord struct {
	URLPath     string
	RequestTime float64 // seconds
	UserAgent   string  // empty when the line carries no agent field
}
