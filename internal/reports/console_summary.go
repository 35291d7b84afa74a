package reports

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"log-report/internal/models"

	"github.com/olekukonko/tablewriter"
)

// WriteConsoleSummary prints the top rows of the report and the request count of each
// agent family. records must already be sorted. top <= 0 prints nothing.
func WriteConsoleSummary(w io.Writer, records []ReportRecord, result *models.AggregationResult, top int) {
	if top <= 0 {
		return
	}

	urls := tablewriter.NewWriter(w)
	urls.SetHeader([]string{"URL", "Count", "Count %", "Time Sum", "Time %", "Avg", "Med", "Max"})
	urls.SetAutoWrapText(false)
	for _, record := range records[:min(top, len(records))] {
		urls.Append([]string{
			record.URL,
			strconv.FormatInt(record.Count, 10),
			record.CountPerc.String(),
			strconv.FormatFloat(record.TimeSum, 'f', 3, 64),
			record.TimePerc.String(),
			record.TimeAvg.String(),
			record.TimeMed.String(),
			record.TimeMax.String(),
		})
	}
	urls.SetFooter([]string{
		fmt.Sprintf("%d urls", len(records)),
		strconv.FormatInt(result.Totals.TotalRequests, 10),
		"", strconv.FormatFloat(result.Totals.TotalTime, 'f', 3, 64), "", "", "", "",
	})
	urls.Render()

	if len(result.RequestsByAgent) == 0 {
		return
	}

	families := slices.SortedFunc(maps.Keys(result.RequestsByAgent), func(a, b string) int {
		if c := cmp.Compare(result.RequestsByAgent[b], result.RequestsByAgent[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	agents := tablewriter.NewWriter(w)
	agents.SetHeader([]string{"Agent", "Requests"})
	for _, family := range families[:min(top, len(families))] {
		agents.Append([]string{family, strconv.FormatInt(result.RequestsByAgent[family], 10)})
	}
	agents.Render()
}
