package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Vitruves/detection-report/internal/aggregate"
	"github.com/Vitruves/detection-report/internal/loader"
	"github.com/Vitruves/detection-report/internal/logger"
	"github.com/Vitruves/detection-report/internal/models"
	"github.com/Vitruves/detection-report/internal/reporter"
	"github.com/Vitruves/detection-report/internal/scanner"
	"github.com/Vitruves/detection-report/internal/utils"
)

// Output file name prefixes.
const (
	BinsPrefix        = "Count_BinsWise_"
	PredictionsPrefix = "True_False_Report_"
)

type Processor struct {
	config     *models.Config
	configFile string
	out        io.Writer
}

type Options struct {
	Preview bool
	Verbose bool
}

// Result describes a finished run.
type Result struct {
	OutputFile string
	Table      *models.Table
	Duration   time.Duration
}

func New(config *models.Config) *Processor {
	return &Processor{
		config: config,
		out:    os.Stdout,
	}
}

func (p *Processor) SetConfigFile(configFile string) {
	p.configFile = configFile
}

// SetOutput redirects the terminal preview.
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// ProcessBins counts the images of a categorized results folder and writes
// Count_BinsWise_<folder> into the folder, or into the configured output
// directory.
func (p *Processor) ProcessBins(ctx context.Context, baseDir string, opts Options) (*Result, error) {
	start := time.Now()
	p.logSettings(opts)

	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder: %w", err)
	}

	logger.Info("Scanning results folder: %s", absDir)
	scanned, err := scanner.ScanDir(absDir)
	if err != nil {
		return nil, err
	}
	logger.DebugCounts("Skipped entries", scanned.Skipped)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, err := aggregate.AggregateBins(scanned.Entries, p.config.Input.ImageExtensions)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", absDir, err)
	}
	if summary.Ignored > 0 {
		logger.Debug("Ignored %d files without an image extension", summary.Ignored)
	}
	logger.Info("Counted %d images across %d classes", summary.Total.TotalCount, len(summary.Classes))

	table := reporter.BinsTable(summary)
	name := BinsPrefix + filepath.Base(absDir)
	return p.emit(ctx, table, absDir, name, start, opts)
}

// ProcessPredictions summarizes a detection results file and writes
// True_False_Report_<stem> next to it, or into the configured output
// directory.
func (p *Processor) ProcessPredictions(ctx context.Context, inputFile string, opts Options) (*Result, error) {
	start := time.Now()
	p.logSettings(opts)

	logger.Info("Loading predictions: %s", inputFile)
	rows, err := loader.LoadPredictions(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", inputFile, err)
	}
	logger.Debug("Loaded %d rows", len(rows))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := aggregate.AggregatePredictions(rows, p.config.Input.NoDetectionLabel)
	logger.Info("Summarized %d rows across %d classes (%d true, %d false predictions)",
		summary.Total.TotalCount, len(summary.Classes), summary.Total.True.Count, summary.Total.False.Count)

	table := reporter.PredictionsTable(summary)
	name := PredictionsPrefix + utils.FileStem(inputFile)
	return p.emit(ctx, table, filepath.Dir(inputFile), name, start, opts)
}

func (p *Processor) logSettings(opts Options) {
	if !opts.Verbose {
		return
	}
	if p.configFile != "" {
		logger.Debug("Config file: %s", p.configFile)
	}
	logger.DebugConfig(p.config)
}

func (p *Processor) emit(ctx context.Context, table *models.Table, defaultDir, name string, start time.Time, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := p.config.Output.Format
	ext, ok := reporter.Extensions[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	dir := p.config.Output.Directory
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(dir, name+ext)

	rep := reporter.New(table, p.config.Output.SheetName)
	if err := rep.SaveToFile(filename, format); err != nil {
		os.Remove(filename)
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	result := &Result{
		OutputFile: filename,
		Table:      table,
		Duration:   time.Since(start),
	}
	logger.Success("Report saved to %s (%s)", filename, utils.FormatDuration(result.Duration))

	if opts.Preview || p.config.Output.Preview {
		fmt.Fprint(p.out, rep.GenerateText())
	}

	return result, nil
}
