package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Vitruves/detection-report/internal/aggregate"
	"github.com/Vitruves/detection-report/internal/cli"
	"github.com/Vitruves/detection-report/internal/config"
	"github.com/Vitruves/detection-report/internal/loader"
	"github.com/Vitruves/detection-report/internal/logger"
	"github.com/Vitruves/detection-report/internal/models"
	"github.com/Vitruves/detection-report/internal/processor"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "detection-report",
		Short: color.New(color.FgCyan, color.Bold).Sprint("Per-class summaries of object detection results"),
		Long: color.New(color.FgHiBlue, color.Bold).Sprint("Detection Report") +
			color.New(color.FgWhite).Sprint(" - Per-class summaries of object detection results\n\n") +
			color.New(color.FgGreen, color.Bold).Sprint("Features:\n") +
			color.New(color.FgYellow).Sprint("• Image counts per class and confidence bin from a True/False/Missed folder\n") +
			color.New(color.FgYellow).Sprint("• True/false prediction counts and confidence statistics from a results table\n") +
			color.New(color.FgYellow).Sprint("• Case-insensitive class grouping with a recomputed Total row\n") +
			color.New(color.FgYellow).Sprint("• Styled Excel output, plus CSV, JSON, Parquet and text"),
		Version:       version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				cli.SetColorEnabled(false)
			}
		},
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(newBinsCmd())
	rootCmd.AddCommand(newPredictionsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", config.DefaultFile, "Configuration file path (optional)")
	cmd.Flags().StringP("output", "o", "", "Output directory (overrides config)")
	cmd.Flags().String("format", "", "Output format: xlsx, csv, json, parquet, text (overrides config)")
	cmd.Flags().Bool("preview", false, "Print the report table after saving")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
}

func newBinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bins <folder>",
		Short: color.New(color.FgGreen, color.Bold).Sprint("Count images per class and confidence bin"),
		Long: color.New(color.FgHiBlue, color.Bold).Sprint("Count images in a categorized detection results folder\n\n") +
			color.New(color.FgMagenta, color.Bold).Sprint("Expected layout:\n") +
			color.New(color.FgCyan).Sprint("  True/<class>/{Below_50,50_70,Above_70}/<image>\n") +
			color.New(color.FgCyan).Sprint("  False/<class>/{Below_50,50_70,Above_70}/<image>\n") +
			color.New(color.FgCyan).Sprint("  Missed/<class>/<image>\n\n") +
			color.New(color.FgMagenta, color.Bold).Sprint("Examples:\n") +
			color.New(color.FgYellow).Sprint("  detection-report bins ./results\n") +
			color.New(color.FgYellow).Sprint("  detection-report bins ./results --format csv -o reports --preview"),
		Args: cobra.ExactArgs(1),
		RunE: runBins,
	}
	addRunFlags(cmd)
	return cmd
}

func newPredictionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predictions <file>",
		Short: color.New(color.FgGreen, color.Bold).Sprint("Summarize true and false predictions per class"),
		Long: color.New(color.FgHiBlue, color.Bold).Sprint("Summarize a detection results table (CSV/Excel/JSON/Parquet)\n\n") +
			color.New(color.FgMagenta, color.Bold).Sprint("Required columns:\n") +
			color.New(color.FgCyan).Sprint("  "+strings.Join(models.PredictionColumns, ", ")+"\n\n") +
			color.New(color.FgMagenta, color.Bold).Sprint("Examples:\n") +
			color.New(color.FgYellow).Sprint("  detection-report predictions detections.xlsx\n") +
			color.New(color.FgYellow).Sprint("  detection-report predictions detections.csv -c config.yaml --format json"),
		Args: cobra.ExactArgs(1),
		RunE: runPredictions,
	}
	addRunFlags(cmd)
	return cmd
}

func newConfigCmd() *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
		Long:  "Validate configuration files",
	}

	configCmd.AddCommand(newConfigValidateCmd())

	return configCmd
}

func newConfigValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration file",
		Long: `Validate configuration file and optionally check a predictions file against it.

Examples:
  detection-report config validate config.yaml
  detection-report config validate config.yaml --test-file detections.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runConfigValidate,
	}

	cmd.Flags().String("test-file", "", "Check a predictions file without writing a report")

	return cmd
}

// loadRunConfig loads the config named by --config and applies flag
// overrides. An absent default config file falls back to defaults.
func loadRunConfig(cmd *cobra.Command) (*models.Config, string, error) {
	configFile, _ := cmd.Flags().GetString("config")
	outputDir, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	preview, _ := cmd.Flags().GetBool("preview")

	cfg, err := config.LoadOrDefault(configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}
	if format != "" {
		cfg.Output.Format = strings.ToLower(format)
	}
	if cmd.Flags().Changed("preview") {
		cfg.Output.Preview = preview
	}

	if err := config.Validate(cfg); err != nil {
		return nil, "", fmt.Errorf("invalid options: %w", err)
	}

	return cfg, configFile, nil
}

func newProcessor(cmd *cobra.Command) (*processor.Processor, processor.Options, error) {
	cfg, configFile, err := loadRunConfig(cmd)
	if err != nil {
		return nil, processor.Options{}, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetVerbose(true)
		logger.DebugSystem()
	}

	proc := processor.New(cfg)
	proc.SetConfigFile(configFile)

	return proc, processor.Options{Preview: cfg.Output.Preview, Verbose: verbose}, nil
}

func runBins(cmd *cobra.Command, args []string) error {
	proc, opts, err := newProcessor(cmd)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.PrintInfo("Counting images in: %s", args[0])
	result, err := proc.ProcessBins(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("bin count failed: %w", err)
	}
	if len(result.Table.ClassRows()) == 0 {
		cli.PrintWarning("No classes found under True/, False/ or Missed/")
	}

	cli.PrintSuccess("Bin counts written to %s", cli.Highlight(result.OutputFile))
	return nil
}

func runPredictions(cmd *cobra.Command, args []string) error {
	inputFile := args[0]
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	proc, opts, err := newProcessor(cmd)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.PrintInfo("Summarizing predictions: %s", inputFile)
	result, err := proc.ProcessPredictions(ctx, inputFile, opts)
	if err != nil {
		return fmt.Errorf("prediction report failed: %w", err)
	}
	if len(result.Table.ClassRows()) == 0 {
		cli.PrintWarning("Input file has no data rows")
	}

	cli.PrintSuccess("Prediction report written to %s", cli.Highlight(result.OutputFile))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configFile := args[0]
	testFile, _ := cmd.Flags().GetString("test-file")

	logger.Header("Configuration Validation")
	logger.Info("Validating: %s", configFile)

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("✓ Configuration loaded successfully")
	printConfigSummary(cfg, configFile)

	if testFile != "" {
		return runConfigTest(cfg, testFile)
	}

	logger.Success("Configuration validation completed")
	return nil
}

func runConfigTest(cfg *models.Config, testFile string) error {
	logger.Info("Checking predictions file: %s", testFile)

	rows, err := loader.LoadPredictions(testFile)
	if err != nil {
		return fmt.Errorf("predictions file check failed: %w", err)
	}

	truePreds, falsePreds := aggregate.Partition(rows, cfg.Input.NoDetectionLabel)
	classes := aggregate.CountByActual(rows)

	fmt.Printf("%s %d\n", cli.Label("Rows:"), len(rows))
	fmt.Printf("%s %d\n", cli.Label("Classes:"), len(classes))
	fmt.Printf("%s %d\n", cli.Label("True predictions:"), len(truePreds))
	fmt.Printf("%s %d\n", cli.Label("False predictions:"), len(falsePreds))

	logger.Success("Predictions file is valid")
	return nil
}

func printConfigSummary(cfg *models.Config, configFile string) {
	fmt.Printf("\n%s\n", color.New(color.FgCyan, color.Bold).Sprint("Configuration Summary"))
	fmt.Printf("%s %s\n", cli.Label("Config file:"), configFile)
	fmt.Printf("%s %s\n", cli.Label("Image extensions:"), strings.Join(cfg.Input.ImageExtensions, ", "))
	fmt.Printf("%s %q\n", cli.Label("No-detection label:"), cfg.Input.NoDetectionLabel)

	outputDir := cfg.Output.Directory
	if outputDir == "" {
		outputDir = "(next to the input)"
	}
	fmt.Printf("%s %s\n", cli.Label("Output directory:"), outputDir)
	fmt.Printf("%s %s\n", cli.Label("Output format:"), cfg.Output.Format)
	fmt.Printf("%s %s\n", cli.Label("Sheet name:"), cfg.Output.SheetName)
	fmt.Printf("%s %t\n\n", cli.Label("Preview:"), cfg.Output.Preview)
}
