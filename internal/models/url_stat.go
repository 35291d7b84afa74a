package models

import "slices"

// UrlStat is the running aggregate for one URL path within a scope (one source file,
// or the merged result of all files).
//
// Invariants: Count == len(Samples) and TotalTime == sum(Samples).
// A UrlStat is only mutated by the scope that created it; merging builds new values.
type UrlStat struct {
	URL       string    `json:"url"`
	Samples   []float64 `json:"samples"`
	TotalTime float64   `json:"totalTime"`
	Count     int64     `json:"count"`
}

func NewUrlStat(url string) *UrlStat {
	return &UrlStat{URL: url}
}

// Observe records one request time.
func (s *UrlStat) Observe(requestTime float64) {
	s.Samples = append(s.Samples, requestTime)
	s.Count++
	s.TotalTime += requestTime
}

// Clone returns a deep copy of s.
func (s *UrlStat) Clone() *UrlStat {
	return &UrlStat{
		URL:       s.URL,
		Samples:   slices.Clone(s.Samples),
		TotalTime: s.TotalTime,
		Count:     s.Count,
	}
}

// GlobalTotals are the scope-wide counters percentages are computed against.
type GlobalTotals struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalTime     float64 `json:"totalTime"`
}

func (t *GlobalTotals) Add(requests int64, time float64) {
	t.TotalRequests += requests
	t.TotalTime += time
}
