package models

import (
	"errors"
	"slices"
)

// ErrEmptyStatistics is returned when a derived metric is requested for a UrlStat
// without samples. UrlStats only exist after a first observation, so this signals a bug.
var ErrEmptyStatistics = errors.New("url stat has no samples")

// Average returns TotalTime / Count.
func Average(stat *UrlStat) (float64, error) {
	if stat.Count == 0 {
		return 0, ErrEmptyStatistics
	}
	return stat.TotalTime / float64(stat.Count), nil
}

// Median returns the order-statistic median of the samples. For an even number of
// samples it is the mean of the two central values. The samples are not reordered.
func Median(stat *UrlStat) (float64, error) {
	n := len(stat.Samples)
	if n == 0 {
		return 0, ErrEmptyStatistics
	}
	sorted := slices.Clone(stat.Samples)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// Max returns the largest sample.
func Max(stat *UrlStat) (float64, error) {
	if len(stat.Samples) == 0 {
		return 0, ErrEmptyStatistics
	}
	return slices.Max(stat.Samples), nil
}

// SharePercentOfTime returns the percentage of totals.TotalTime spent in stat's URL.
func SharePercentOfTime(stat *UrlStat, totals GlobalTotals) float64 {
	if totals.TotalTime == 0 {
		return 0
	}
	return 100 * stat.TotalTime / totals.TotalTime
}

// SharePercentOfRequests returns the percentage of totals.TotalRequests made to stat's URL.
func SharePercentOfRequests(stat *UrlStat, totals GlobalTotals) float64 {
	if totals.TotalRequests == 0 {
		return 0
	}
	return 100 * float64(stat.Count) / float64(totals.TotalRequests)
}
