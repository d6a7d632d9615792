package cli

import (
	"os"

	"github.com/Vitruves/detection-report/internal/logger"

	"github.com/fatih/color"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// SetColorEnabled allows manual control of color output
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

func Highlight(text string) string {
	return color.New(color.FgHiGreen).Sprint(text)
}

func Label(text string) string {
	return color.New(color.FgBlue).Sprint(text)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	logger.Error(format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	logger.Warning(format, args...)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	logger.Success(format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
