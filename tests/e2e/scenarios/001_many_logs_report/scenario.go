package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"log-report/internal/app"
	"log-report/internal/shared/configs"

	"github.com/klauspost/compress/gzip"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalEntries = 64000 // Total number of access log lines to generate
	fileCount    = 16    // Number of gzip logs the entries are spread over
)

var (
	paths      = []string{"/", "/about", "/careers", "/contact"}
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"curl/7.88.1",
	}
)

// ### End - fixed configs

type expectedStat struct {
	count int64
	sum   float64
}

// main runs the e2e scenario: 001_many_logs_report
//
// This scenario generates 64,000 access log lines spread over 16 gzip logs, adds one
// corrupt log and one log of malformed lines, builds a report from the whole directory
// and checks the report against the generated data.
//
// What it tests:
//   - Glob discovery of the logs in the storage directory
//   - Concurrent aggregation with a worker pool smaller than the number of logs
//   - A corrupt log is skipped and listed without failing the build
//   - Malformed lines are skipped without affecting any count
//   - Merged counts and time sums match the generated data exactly
//
// Expected results:
//   - The report lists 4 urls, each with 16,000 requests and count_perc 25.00000
//   - The run lists exactly one failed source: corrupt.gz
func main() {
	// these configs can be changed to run the scenario
	workDir := ".tmp/e2e-001" // Working directory relative to project root
	workers := 3              // Size of the collector worker pool

	projectRoot, err := findProjectRoot()
	if err != nil {
		fail("Could not find project root: %v", err)
	}
	logDir := filepath.Join(projectRoot, workDir, "logs")
	reportDir := filepath.Join(projectRoot, workDir, "reports")

	fmt.Printf("Cleaning working directory: %s\n", filepath.Join(projectRoot, workDir))
	if err := os.RemoveAll(filepath.Join(projectRoot, workDir)); err != nil {
		fail("Failed to clean working directory: %v", err)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fail("Failed to create log directory: %v", err)
	}

	fmt.Println("Starting e2e scenario: 001_many_logs_report")
	fmt.Printf("TOTAL_ENTRIES: %d\n", totalEntries)
	fmt.Printf("FILE_COUNT: %d\n", fileCount)
	fmt.Printf("WORKERS: %d\n", workers)
	fmt.Println()

	expected, err := generateLogs(logDir)
	if err != nil {
		fail("Failed to generate logs: %v", err)
	}

	cfg := &configs.Config{
		Log:         configs.LogConfig{Level: "warn"},
		FileStorage: configs.FileStorageConfig{RootDir: logDir},
		Collector:   configs.CollectorConfig{Workers: workers, Pattern: "*.gz"},
		Report:      configs.ReportConfig{OutputDir: reportDir, OutputName: "report.html", ConsoleTop: len(paths)},
	}
	application, err := app.New(cfg, os.Stdout)
	if err != nil {
		fail("Failed to initialize app: %v", err)
	}
	status, err := application.Run(context.Background(), nil)
	if err != nil {
		fail("Report build failed: %v", err)
	}
	_ = application.Shutdown(context.Background())

	if len(status.FailedSources) != 1 || status.FailedSources[0] != "corrupt.gz" {
		fail("Expected only corrupt.gz to fail, got %v", status.FailedSources)
	}

	records, err := readReport(filepath.Join(reportDir, status.ReportKey))
	if err != nil {
		fail("Failed to read report: %v", err)
	}
	if len(records) != len(paths) {
		fail("Expected %d urls, got %d", len(paths), len(records))
	}
	for _, record := range records {
		want, ok := expected[record.URL]
		if !ok {
			fail("Unexpected url %q in report", record.URL)
		}
		if record.Count != want.count {
			fail("url %q: expected count %d, got %d", record.URL, want.count, record.Count)
		}
		if diff := record.TimeSum - want.sum; diff > 1e-6 || diff < -1e-6 {
			fail("url %q: expected time_sum %.6f, got %.6f", record.URL, want.sum, record.TimeSum)
		}
		if record.CountPerc.String() != "25.00000" {
			fail("url %q: expected count_perc 25.00000, got %s", record.URL, record.CountPerc)
		}
	}

	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Run id: %s\n", status.RunID)
	fmt.Printf("Sources: %d\n", status.Sources)
	fmt.Printf("Failed sources: %d\n", len(status.FailedSources))
	fmt.Printf("Report: %s\n", filepath.Join(reportDir, status.ReportKey))
	fmt.Println("Scenario completed successfully")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

// findProjectRoot walks up from the working directory until it finds go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above working directory")
		}
		dir = parent
	}
}

// generateLogs writes the deterministic logs and returns the expected per-url stats.
func generateLogs(dir string) (map[string]*expectedStat, error) {
	expected := make(map[string]*expectedStat, len(paths))
	lines := make([][]string, fileCount)

	for i := 0; i < totalEntries; i++ {
		bucket := i % 16
		round := i / 16
		path := paths[bucket/4]
		ua := userAgents[bucket%4]
		millis := (bucket*17+round)%1000 + 1

		stat, ok := expected[path]
		if !ok {
			stat = &expectedStat{}
			expected[path] = stat
		}
		stat.count++
		stat.sum += float64(millis) / 1000

		line := fmt.Sprintf(`10.0.%d.%d -  - [28/Dec/2025:18:03:%02d +0000] "GET %s HTTP/1.1" 200 512 "-" "%s" "-" "%d" "-" %d.%03d`,
			bucket, round%256, round%60, path, ua, i, millis/1000, millis%1000)
		lines[i%fileCount] = append(lines[i%fileCount], line)
	}

	for i, fileLines := range lines {
		name := fmt.Sprintf("nginx-access-ui.log-%02d.gz", i)
		if err := writeGzip(filepath.Join(dir, name), fileLines); err != nil {
			return nil, err
		}
	}
	if err := writeGzip(filepath.Join(dir, "malformed.gz"), []string{"", "not an access log line", `"GET /x HTTP/1.1" 200 - 1.2.3`}); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, "corrupt.gz"), []byte("definitely not gzip"), 0644); err != nil {
		return nil, err
	}

	fmt.Printf("Generated %d entries in %d logs\n", totalEntries, fileCount)
	return expected, nil
}

func writeGzip(path string, lines []string) error {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

var tableJSON = regexp.MustCompile(`var table = (\[.*\]);`)

type reportRecord struct {
	URL       string      `json:"url"`
	Count     int64       `json:"count"`
	TimeSum   float64     `json:"time_sum"`
	CountPerc json.Number `json:"count_perc"`
}

func readReport(path string) ([]reportRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	match := tableJSON.FindSubmatch(content)
	if match == nil {
		return nil, fmt.Errorf("report %s has no table json", path)
	}
	var records []reportRecord
	if err := json.Unmarshal(match[1], &records); err != nil {
		return nil, err
	}
	return records, nil
}
