// cmd/gputrace/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gputrace/internal/analysis/profile"
	"gputrace/internal/collectors/environment"
	"gputrace/internal/extract"
	"gputrace/internal/models"
	"gputrace/internal/parsers/trace"
	"gputrace/internal/reporters"
	csvreport "gputrace/internal/reporters/csv"
	"gputrace/internal/reporters/stdout"
	"gputrace/internal/server/db"
	"gputrace/pkg/config"
	"gputrace/pkg/logutil"
)

var (
	configPath  = flag.String("config", "", "Path to a YAML configuration file")
	trimKernel  = flag.String("trim", "", "Kernel name each step is trimmed to; \"none\" disables trimming")
	decodeMaxMs = flag.Float64("decode-max-ms", 0, "Decode step duration cutoff in ms; longer steps are filtered as prefill")
	format      = flag.String("format", "", "Stats report format (csv or json)")
	withJSON    = flag.Bool("json", false, "Also write a JSON run report into the report directory")
	previewRows = flag.Int("preview", 0, "Number of rows printed in the preview")
	store       = flag.Bool("store", false, "Persist the run to the database")
	version     = flag.Bool("version", false, "Show version information")
)

const traceVersion = "0.1.0"

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *version {
		fmt.Printf("gputrace version %s\n", traceVersion)
		return
	}

	logutil.InitLogger()
	logger := logutil.GetLogger()
	defer logger.Sync()

	cfg := loadConfig(logger)

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "extract":
		if len(args) != 4 {
			fmt.Fprintln(os.Stderr, "Usage: gputrace extract <input_json> <output_csv> <start_us,end_us>")
			os.Exit(1)
		}
		err = runExtract(logger, args[1], args[2], args[3])

	case "stats":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: gputrace [flags] stats <input_json> <output>")
			os.Exit(1)
		}
		err = runStats(logger, cfg, args[1], args[2])

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "gputrace - extract and profile GPU operations from trace files\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  gputrace [flags] extract <input_json> <output_csv> <start_us,end_us>\n")
	fmt.Fprintf(os.Stderr, "      Extract GPU operations within a specific time range\n\n")
	fmt.Fprintf(os.Stderr, "  gputrace [flags] stats <input_json> <output>\n")
	fmt.Fprintf(os.Stderr, "      Align ProfileStep GPU operations across steps and average them\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

// loadConfig layers the optional config file under the command-line flags.
func loadConfig(logger *zap.Logger) *config.Config {
	cfg := fileConfig(logger, *configPath)

	if *trimKernel != "" {
		cfg.AnchorKernel = *trimKernel
	}
	if *decodeMaxMs > 0 {
		cfg.DecodeMaxDurationMs = *decodeMaxMs
	}
	if *format != "" {
		cfg.OutputFormat = *format
	}
	if *previewRows > 0 {
		cfg.PreviewRows = *previewRows
	}
	if *store {
		cfg.StoreRuns = true
	}
	return cfg
}

// fileConfig reads the config file at path; defaults are used when path is
// empty or the file cannot be read.
func fileConfig(logger *zap.Logger, path string) *config.Config {
	if path == "" {
		return config.DefaultConfig()
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		logger.Warn("Falling back to default configuration",
			zap.String("path", path), zap.Error(err))
		return config.DefaultConfig()
	}
	return loaded
}

func runExtract(logger *zap.Logger, input, output, timeRange string) error {
	window, err := parseWindow(timeRange)
	if err != nil {
		return err
	}

	logger.Info("Processing trace file",
		zap.String("input", input),
		zap.Float64("startUs", window.Start),
		zap.Float64("endUs", window.End))

	// Extraction keeps operation names verbatim, duration suffixes included.
	result, err := parseTrace(input, trace.Options{NormalizeNames: false})
	if err != nil {
		return err
	}

	ops := extract.Operations(result.Operations, window)
	logger.Info("Extracted operations in range",
		zap.Int("totalEvents", result.TotalEvents),
		zap.Int("matched", len(ops)))

	if err := csvreport.WriteOperationsFile(output, ops); err != nil {
		return err
	}
	logger.Info("Wrote extraction report",
		zap.String("output", output),
		zap.Int("records", len(ops)))

	stdout.PreviewOperations(os.Stdout, ops, 5)
	return nil
}

func runStats(logger *zap.Logger, cfg *config.Config, input, output string) error {
	logger.Info("Processing trace file", zap.String("input", input))

	result, err := parseTrace(input, trace.Options{NormalizeNames: true})
	if err != nil {
		return err
	}

	logger.Info("Classified trace events",
		zap.Int("totalEvents", result.TotalEvents),
		zap.Int("steps", len(result.Steps)),
		zap.Int("operations", len(result.Operations)))

	anchor := cfg.AnchorKernel
	if strings.EqualFold(anchor, "none") {
		anchor = ""
	}
	opts := profile.Options{
		AnchorName:        anchor,
		DecodeMaxDuration: cfg.DecodeMaxDurationMs * 1000,
	}

	analysis, err := profile.NewAnalyzer(result.Steps, result.Operations, opts).Analyze()
	if err != nil {
		return err
	}

	run := &models.ProfileRun{
		ID:                uuid.New().String(),
		TracePath:         input,
		CreatedAt:         time.Now(),
		AnchorName:        anchor,
		DecodeMaxDuration: opts.DecodeMaxDuration,
		Records:           analysis.Records,
		Counters:          analysis.Counters,
	}
	run.Counters.TotalEvents = result.TotalEvents

	if cfg.CollectEnvironment {
		run.Environment = collectEnvironment(logger)
	}

	report, err := reporters.NewReporter(reporters.Options{
		Format:     cfg.OutputFormat,
		OutputPath: output,
		OutputDir:  cfg.ReportDir,
		Run:        run,
	})
	if err != nil {
		return err
	}
	if err := report.Generate(); err != nil {
		return err
	}
	logger.Info("Wrote stats report",
		zap.String("format", cfg.OutputFormat),
		zap.String("output", output),
		zap.Int("records", len(run.Records)))

	if *withJSON && cfg.OutputFormat != "json" {
		extra, err := reporters.NewReporter(reporters.Options{
			Format:    "json",
			OutputDir: cfg.ReportDir,
			Run:       run,
		})
		if err != nil {
			return err
		}
		if err := extra.Generate(); err != nil {
			return err
		}
	}

	preview, err := reporters.NewReporter(reporters.Options{
		Format:      "stdout",
		PreviewRows: cfg.PreviewRows,
		Writer:      os.Stdout,
		Run:         run,
	})
	if err != nil {
		return err
	}
	if err := preview.Generate(); err != nil {
		return err
	}

	if cfg.StoreRuns {
		if err := storeRun(logger, run); err != nil {
			return fmt.Errorf("storing run: %w", err)
		}
	}

	return nil
}

func parseTrace(input string, opts trace.Options) (*trace.Result, error) {
	file, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer file.Close()

	return trace.NewParser(file, opts).Parse()
}

func parseWindow(timeRange string) (extract.Window, error) {
	parts := strings.Split(timeRange, ",")
	if len(parts) != 2 {
		return extract.Window{}, fmt.Errorf("invalid time range %q, expected start,end", timeRange)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return extract.Window{}, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return extract.Window{}, fmt.Errorf("invalid window end: %w", err)
	}
	return extract.Window{Start: start, End: end}, nil
}

func collectEnvironment(logger *zap.Logger) models.Environment {
	collector := environment.NewCollector()
	if err := collector.Collect(context.Background()); err != nil {
		logger.Warn("Environment collection failed", zap.Error(err))
	}
	return collector.Environment()
}

func storeRun(logger *zap.Logger, run *models.ProfileRun) error {
	// .env is optional; environment variables may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("Could not load .env file", zap.Error(err))
	}

	conn, err := db.Connect(db.NewDefaultConfig())
	if err != nil {
		return err
	}

	database := db.New(conn)
	if err := database.Migrate(); err != nil {
		return err
	}
	if err := database.SaveRun(run); err != nil {
		return err
	}

	logger.Info("Stored run", zap.String("id", run.ID))
	return nil
}
