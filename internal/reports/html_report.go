package reports

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// TablePlaceholder is replaced by the JSON array of report records.
const TablePlaceholder = "$table_json"

//go:embed templates/report.html
var defaultTemplate string

// LoadTemplate returns the template at path, or the embedded one when path is empty.
// A template without TablePlaceholder would render an empty report and is rejected.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return defaultTemplate, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errInternalTemplateLoad(err)
	}
	if !strings.Contains(string(content), TablePlaceholder) {
		return "", errInternalTemplateLoad(fmt.Errorf("template %q has no %s placeholder", path, TablePlaceholder))
	}
	return string(content), nil
}

// RenderHTML substitutes the records, as a JSON array, for every placeholder in template.
func RenderHTML(template string, records []ReportRecord) ([]byte, error) {
	if records == nil {
		records = []ReportRecord{}
	}
	tableJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report records: %w", err)
	}
	return []byte(strings.ReplaceAll(template, TablePlaceholder, string(tableJSON))), nil
}

// OutputName returns configured, or the dated default name for a report built at now.
func OutputName(configured string, now time.Time) string {
	if configured != "" {
		return configured
	}
	return "report-" + now.Format("2006.01.02") + ".html"
}
