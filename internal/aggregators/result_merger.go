package aggregators

import (
	"fmt"
	"math"

	"log-report/internal/models"
)

const totalTimeTolerance = 1e-9

// MergeResults combines per-source results into a new result. Stats for a URL seen in
// several sources have their samples concatenated and their sums added; URL order is
// the order of first appearance across results in argument order. Inputs are not
// modified and no UrlStat is shared between an input and the output.
func MergeResults(results ...*models.AggregationResult) *models.AggregationResult {
	merged := models.NewAggregationResult("")

	for _, partial := range results {
		if partial == nil {
			continue
		}
		for _, url := range partial.Order {
			stat := partial.Stats[url]
			existing, exists := merged.Stats[url]
			if !exists {
				merged.Stats[url] = stat.Clone()
				merged.Order = append(merged.Order, url)
				continue
			}
			existing.Samples = append(existing.Samples, stat.Samples...)
			existing.TotalTime += stat.TotalTime
			existing.Count += stat.Count
		}

		merged.Totals.Add(partial.Totals.TotalRequests, partial.Totals.TotalTime)
		for agent, count := range partial.RequestsByAgent {
			merged.RequestsByAgent[agent] += count
		}
		merged.ParsedLines += partial.ParsedLines
		merged.SkippedLines += partial.SkippedLines
	}

	return merged
}

// VerifyTotals checks that result.Totals equals the sums over result.Stats and that
// every stat agrees with its samples.
func VerifyTotals(result *models.AggregationResult) error {
	var requests int64
	var totalTime float64

	if len(result.Order) != len(result.Stats) {
		return fmt.Errorf("order lists %d urls, stats hold %d", len(result.Order), len(result.Stats))
	}
	for url, stat := range result.Stats {
		if stat.Count != int64(len(stat.Samples)) {
			return fmt.Errorf("url %q: count %d != %d samples", url, stat.Count, len(stat.Samples))
		}
		var sampleSum float64
		for _, sample := range stat.Samples {
			sampleSum += sample
		}
		if !closeEnough(sampleSum, stat.TotalTime) {
			return fmt.Errorf("url %q: total time %v != sample sum %v", url, stat.TotalTime, sampleSum)
		}
		requests += stat.Count
		totalTime += stat.TotalTime
	}

	if requests != result.Totals.TotalRequests {
		return fmt.Errorf("total requests %d != sum of url counts %d", result.Totals.TotalRequests, requests)
	}
	if !closeEnough(totalTime, result.Totals.TotalTime) {
		return fmt.Errorf("total time %v != sum of url times %v", result.Totals.TotalTime, totalTime)
	}
	return nil
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= totalTimeTolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
