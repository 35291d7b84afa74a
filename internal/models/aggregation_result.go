package models

// AggregationResult is the unit produced by processing one source and by merging
// the results of all sources.
//
// Example JSON (per-source partial, as persisted when partials are kept):
//
//	{
//	  "source": "nginx-access-ui.log-20170630.gz",
//	  "stats": {
//	    "/api/v2/banner/25019354": {"url": "/api/v2/banner/25019354", "samples": [0.39, 0.2], "totalTime": 0.59, "count": 2}
//	  },
//	  "order": ["/api/v2/banner/25019354"],
//	  "totals": {"totalRequests": 2, "totalTime": 0.59},
//	  "requestsByAgent": {"Lynx": 2},
//	  "parsedLines": 2,
//	  "skippedLines": 0
//	}
type AggregationResult struct {
	Source          string              `json:"source,omitempty"`
	Stats           map[string]*UrlStat `json:"stats"`
	Order           []string            `json:"order"` // URLs in first-encounter order
	Totals          GlobalTotals        `json:"totals"`
	RequestsByAgent map[string]int64    `json:"requestsByAgent"`
	ParsedLines     int64               `json:"parsedLines"`
	SkippedLines    int64               `json:"skippedLines"`
}

func NewAggregationResult(source string) *AggregationResult {
	return &AggregationResult{
		Source:          source,
		Stats:           make(map[string]*UrlStat),
		Order:           []string{},
		RequestsByAgent: make(map[string]int64),
	}
}

// Observe folds one record into the result: the URL's stat, the totals and the
// agent breakdown. agentFamily may be empty when the record has no agent.
func (r *AggregationResult) Observe(record *LogRecord, agentFamily string) {
	stat, exists := r.Stats[record.URLPath]
	if !exists {
		stat = NewUrlStat(record.URLPath)
		r.Stats[record.URLPath] = stat
		r.Order = append(r.Order, record.URLPath)
	}
	stat.Observe(record.RequestTime)
	r.Totals.Add(1, record.RequestTime)
	r.ParsedLines++
	if agentFamily != "" {
		r.RequestsByAgent[agentFamily]++
	}
}

// Ordered returns the stats in first-encounter order.
func (r *AggregationResult) Ordered() []*UrlStat {
	stats := make([]*UrlStat, 0, len(r.Order))
	for _, url := range r.Order {
		stats = append(stats, r.Stats[url])
	}
	return stats
}

// SourceFailure reports a source that contributed nothing to a collection.
type SourceFailure struct {
	Source string
	Err    error
}

// Collection is the outcome of collecting a set of sources: the merged result of
// every source that could be read, and the failures of those that could not.
type Collection struct {
	Result   *AggregationResult
	Failures []*SourceFailure
}
