package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/fatih/color"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

var (
	currentLevel = INFO
	verbose      = false

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	colorError   = color.New(color.FgRed, color.Bold)
	colorSuccess = color.New(color.FgGreen, color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorInfo    = color.New(color.FgCyan, color.Bold)
	colorDebug   = color.New(color.FgHiBlack)
	colorHeader  = color.New(color.FgMagenta, color.Bold, color.Underline)
	colorKey     = color.New(color.FgBlue)
)

// SetLevel sets the global log level
func SetLevel(level LogLevel) {
	currentLevel = level
}

// SetVerbose enables verbose logging (DEBUG level)
func SetVerbose(enabled bool) {
	verbose = enabled
	if enabled {
		currentLevel = DEBUG
	} else if currentLevel == DEBUG {
		currentLevel = INFO
	}
}

func IsVerbose() bool {
	return verbose
}

// SetOutput redirects regular and error output. A nil writer keeps the
// current one.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) colorFunc() *color.Color {
	switch l {
	case DEBUG:
		return colorDebug
	case INFO:
		return colorInfo
	case WARNING:
		return colorWarning
	case ERROR:
		return colorError
	default:
		return color.New(color.Reset)
	}
}

// formatMessage creates a formatted log message with timestamp and level
func formatMessage(level LogLevel, levelColor *color.Color, message string, args ...interface{}) string {
	timestamp := colorKey.Sprintf("%s", time.Now().Format("15:04"))
	levelStr := levelColor.Sprintf("%s", level.String())

	formattedMsg := message
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(message, args...)
	}

	return fmt.Sprintf("%s - %s : %s", timestamp, levelStr, formattedMsg)
}

func shouldLog(level LogLevel) bool {
	return level >= currentLevel
}

// Debug logs a debug message (only visible with --verbose)
func Debug(message string, args ...interface{}) {
	if shouldLog(DEBUG) {
		fmt.Fprintln(stdout, formatMessage(DEBUG, DEBUG.colorFunc(), message, args...))
	}
}

func Info(message string, args ...interface{}) {
	if shouldLog(INFO) {
		fmt.Fprintln(stdout, formatMessage(INFO, INFO.colorFunc(), message, args...))
	}
}

func Warning(message string, args ...interface{}) {
	if shouldLog(WARNING) {
		fmt.Fprintln(stdout, formatMessage(WARNING, WARNING.colorFunc(), message, args...))
	}
}

func Error(message string, args ...interface{}) {
	if shouldLog(ERROR) {
		fmt.Fprintln(stderr, formatMessage(ERROR, ERROR.colorFunc(), message, args...))
	}
}

// Success logs at INFO level with the success colour
func Success(message string, args ...interface{}) {
	if shouldLog(INFO) {
		fmt.Fprintln(stdout, formatMessage(INFO, colorSuccess, message, args...))
	}
}

// Header logs a section title
func Header(message string, args ...interface{}) {
	if shouldLog(INFO) {
		fmt.Fprintln(stdout, formatMessage(INFO, INFO.colorFunc(), colorHeader.Sprintf(message, args...)))
	}
}

// DebugCounts logs a map of counters sorted by key.
func DebugCounts(title string, counts map[string]int) {
	if !shouldLog(DEBUG) {
		return
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	Debug("%s:", title)
	for _, key := range keys {
		Debug("  %q: %d", key, counts[key])
	}
}

func DebugSystem() {
	if !shouldLog(DEBUG) {
		return
	}

	Debug("System information:")
	Debug("  OS: %s", runtime.GOOS)
	Debug("  Architecture: %s", runtime.GOARCH)
	Debug("  Go version: %s", runtime.Version())
}

func DebugConfig(config interface{}) {
	if !shouldLog(DEBUG) {
		return
	}

	Debug("Configuration loaded:")
	Debug("  %+v", config)
}
