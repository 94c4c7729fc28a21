// Command-line entry point for Flight Insight.
//
// Reads a JSON array of filed flight plans (the same shape the API
// accepts), runs the analysis pipeline, and writes the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"flight_insight/internal/airports"
	"flight_insight/internal/analysis"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "flight_insight - commands:")
	fmt.Fprintln(w, "  analyze   - run the full pipeline (trajectories, conflicts, hotspots, proposals)")
	fmt.Fprintln(w, "  validate  - report schema/route/constraint issues only")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  flight_insight analyze -input flights.json [-output out.json] [-pretty] [-stats]")
	fmt.Fprintln(w, "  flight_insight validate -input flights.json")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - Input must be a JSON array of flight-plan objects.")
	fmt.Fprintln(w, "  - Bad flights are skipped and reported in the issues list; the run does not abort.")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "analyze":
		runAnalyze(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func readBatch(path string) []json.RawMessage {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		fmt.Fprintf(os.Stderr, "Input decode error: %v\n", err)
		os.Exit(1)
	}
	return payload
}

func writeResult(path string, v any, pretty bool) {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	var (
		enc []byte
		err error
	)
	if pretty {
		enc, err = json.MarshalIndent(v, "", "  ")
	} else {
		enc, err = json.Marshal(v)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	_, _ = w.Write(enc)
	if w == os.Stdout {
		_, _ = w.Write([]byte("\n"))
	}
}

func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	inPath := fs.String("input", "", "Input JSON file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	sampleSec := fs.Int("sample-sec", 60, "Trajectory sample cadence in seconds")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	_ = fs.Parse(args)

	payload := readBatch(*inPath)

	analyzer := analysis.New(airports.Canadian())
	analyzer.SampleSec = *sampleSec

	result, err := analyzer.Analyze(context.Background(), payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		os.Exit(1)
	}

	writeResult(*outPath, result, *pretty)

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: flights=%d trajectories=%d issues=%d conflicts=%d hotspots=%d proposal_keys=%d\n",
			len(payload), len(result.Trajectories), len(result.Issues),
			len(result.Conflicts), len(result.Hotspots), len(result.Proposals),
		)
	}
}

func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	inPath := fs.String("input", "", "Input JSON file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	_ = fs.Parse(args)

	payload := readBatch(*inPath)

	analyzer := analysis.New(airports.Canadian())
	_, issues := analyzer.ParseFlights(payload)

	writeResult(*outPath, issues, *pretty)
}
