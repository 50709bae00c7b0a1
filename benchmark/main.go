// Package main provides a performance benchmarking tool for the ChurnScope CLI.
// It generates synthetic transaction datasets of increasing size, measures
// execution times per command with and without run tracking, treating the
// first successful run as cold and averaging the rest as warm, and writes
// CSV output for performance analysis and documentation.
//
// Prerequisites:
// - churnscope binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated datasets and history databases
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-tracking average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset        string
	Command        string
	NoTrackingTime string
	ColdTime       string
	WarmTime       string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir        string
	Timeout        time.Duration
	Workers        int
	NoTrackingRuns int
	TrackingRuns   int
	DatasetSizes   map[string]int // name -> customer count
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:        workDir,
		Timeout:        5 * time.Minute,
		Workers:        8,
		NoTrackingRuns: 3,
		TrackingRuns:   4,
		DatasetSizes: map[string]int{
			"small":  1_000,
			"medium": 25_000,
			"large":  250_000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	datasets, err := generateDatasets(config)
	if err != nil {
		fmt.Printf("Dataset generation failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, datasets)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the churnscope binary and work dir exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("churnscope"); err != nil {
		return fmt.Errorf("churnscope binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %v", config.WorkDir, err)
	}
	return nil
}

// generateDatasets writes one synthetic transaction CSV per configured size
// and returns dataset name -> file path.
func generateDatasets(config BenchmarkConfig) (map[string]string, error) {
	rng := rand.New(rand.NewSource(42))
	datasets := make(map[string]string, len(config.DatasetSizes))

	for name, customers := range config.DatasetSizes {
		path := filepath.Join(config.WorkDir, fmt.Sprintf("transactions_%s.csv", name))
		fmt.Printf("Generating %s dataset (%d customers) at %s\n", name, customers, path)
		if err := writeSyntheticCSV(path, customers, rng); err != nil {
			return nil, err
		}
		datasets[name] = path
	}
	return datasets, nil
}

// writeSyntheticCSV emits 1-20 orders per customer spread over the past year.
func writeSyntheticCSV(path string, customers int, rng *rand.Rand) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"customer_id", "timestamp", "amount", "is_return", "category"}); err != nil {
		return err
	}

	categories := []string{"apparel", "electronics", "garden", "books", "grocery"}
	now := time.Now().UTC()
	for i := range customers {
		orders := 1 + rng.Intn(20)
		for range orders {
			daysAgo := rng.Intn(365)
			amount := 5 + rng.Float64()*495
			isReturn := rng.Float64() < 0.05
			rec := []string{
				fmt.Sprintf("CUST-%07d", i),
				now.AddDate(0, 0, -daysAgo).Format("2006-01-02"),
				strconv.FormatFloat(amount, 'f', 2, 64),
				strconv.FormatBool(isReturn),
				categories[rng.Intn(len(categories))],
			}
			if err := writer.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// runBenchmarks executes all benchmark tests across generated datasets.
func runBenchmarks(config BenchmarkConfig, datasets map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, no-tracking: %d runs, tracking: %d runs\n",
		len(datasets), config.Timeout, config.Workers, config.NoTrackingRuns, config.TrackingRuns)

	for name, path := range datasets {
		fmt.Printf("Benchmarking %s\n", name)

		for _, command := range []string{"analyze", "segments", "actions"} {
			result := runBenchmarkSuite(config, name, path, command)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-tracking and tracking benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset, datasetPath, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	historyPath := filepath.Join(config.WorkDir, fmt.Sprintf("history_%s_%s.db", dataset, command))

	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, datasetPath, command, historyBackend, historyPath, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-tracking runs
	_, noTrackingAvg := runPhase("none", config.NoTrackingRuns, "No-tracking")

	// Phase 2: Tracking runs
	coldTime, warmAvg := runPhase("sqlite", config.TrackingRuns, "Tracking")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-tracking average: %s, Cold time: %s, Warm average: %s\n", noTrackingAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:        dataset,
		Command:        command,
		NoTrackingTime: noTrackingAvg,
		ColdTime:       coldTimeStr,
		WarmTime:       warmAvg,
	}
}

// runBenchmark executes a churnscope command multiple times with the given
// history backend and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, datasetPath, command, historyBackend, historyPath string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command, datasetPath,
		"--history-backend", historyBackend,
		"--workers", strconv.Itoa(config.Workers),
	}
	if historyBackend == "sqlite" {
		args = append(args, "--history-db-connect", historyPath)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("churnscope", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/churnscope_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_tracking_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoTrackingTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "segments", "Segments:")
	printCommandSummary(results, "actions", "Actions:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type.
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: No-tracking: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoTrackingTime, result.ColdTime, result.WarmTime)
		}
	}
}
