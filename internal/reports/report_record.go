package reports

import (
	"encoding/json"
	"slices"
	"strconv"

	"log-report/internal/models"
)

// ReportRecord is one row of the report table.
//
// Example JSON:
//
//	{
//	  "url": "/api/v2/banner/25019354",
//	  "count": 4,
//	  "time_avg": 0.250,
//	  "time_max": 0.400,
//	  "time_sum": 1.0,
//	  "time_med": 0.250,
//	  "time_perc": 66.6667,
//	  "count_perc": 80.00000
//	}
type ReportRecord struct {
	URL       string      `json:"url"`
	Count     int64       `json:"count"`
	TimeAvg   json.Number `json:"time_avg"`
	TimeMax   json.Number `json:"time_max"`
	TimeSum   float64     `json:"time_sum"`
	TimeMed   json.Number `json:"time_med"`
	TimePerc  json.Number `json:"time_perc"`
	CountPerc json.Number `json:"count_perc"`
}

// BuildRecords turns the merged result into report rows sorted by time_sum descending.
// URLs with equal time_sum keep their first-encounter order.
func BuildRecords(result *models.AggregationResult) ([]ReportRecord, error) {
	records := make([]ReportRecord, 0, len(result.Order))
	for _, stat := range result.Ordered() {
		avg, err := models.Average(stat)
		if err != nil {
			return nil, errEmptyStatistics(stat.URL, err)
		}
		med, err := models.Median(stat)
		if err != nil {
			return nil, errEmptyStatistics(stat.URL, err)
		}
		maxTime, err := models.Max(stat)
		if err != nil {
			return nil, errEmptyStatistics(stat.URL, err)
		}

		records = append(records, ReportRecord{
			URL:       stat.URL,
			Count:     stat.Count,
			TimeAvg:   fixed(avg, 3),
			TimeMax:   fixed(maxTime, 3),
			TimeSum:   stat.TotalTime,
			TimeMed:   fixed(med, 3),
			TimePerc:  fixed(models.SharePercentOfTime(stat, result.Totals), 4),
			CountPerc: fixed(models.SharePercentOfRequests(stat, result.Totals), 5),
		})
	}

	slices.SortStableFunc(records, func(a, b ReportRecord) int {
		switch {
		case a.TimeSum > b.TimeSum:
			return -1
		case a.TimeSum < b.TimeSum:
			return 1
		default:
			return 0
		}
	})
	return records, nil
}

func fixed(v float64, decimals int) json.Number {
	return json.Number(strconv.FormatFloat(v, 'f', decimals, 64))
}
