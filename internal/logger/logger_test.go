package logger

import (
	"bytes"
	"strings"
	"testing"
)

// captureOutput swaps the package writers for buffers and restores level and
// writers when the test ends.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	originalLevel := currentLevel
	originalVerbose := verbose
	originalOut, originalErr := stdout, stderr

	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)

	t.Cleanup(func() {
		currentLevel = originalLevel
		verbose = originalVerbose
		stdout, stderr = originalOut, originalErr
	})
	return &out, &errOut
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARNING, "WARNING"},
		{ERROR, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("Expected level string '%s', got '%s'", tt.expected, result)
		}
	}
}

func TestSetLevel(t *testing.T) {
	captureOutput(t)

	SetLevel(WARNING)
	if currentLevel != WARNING {
		t.Errorf("Expected current level WARNING, got %v", currentLevel)
	}

	SetLevel(DEBUG)
	if currentLevel != DEBUG {
		t.Errorf("Expected current level DEBUG, got %v", currentLevel)
	}
}

func TestSetVerbose(t *testing.T) {
	captureOutput(t)

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("Expected verbose to be true")
	}
	if currentLevel != DEBUG {
		t.Errorf("Expected current level DEBUG when verbose, got %v", currentLevel)
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("Expected verbose to be false")
	}
	if currentLevel != INFO {
		t.Errorf("Expected level to drop back to INFO, got %v", currentLevel)
	}
}

func TestShouldLog(t *testing.T) {
	captureOutput(t)

	SetLevel(WARNING)

	if shouldLog(DEBUG) {
		t.Error("DEBUG should not log when level is WARNING")
	}
	if shouldLog(INFO) {
		t.Error("INFO should not log when level is WARNING")
	}
	if !shouldLog(WARNING) {
		t.Error("WARNING should log when level is WARNING")
	}
	if !shouldLog(ERROR) {
		t.Error("ERROR should log when level is WARNING")
	}
}

func TestFormatMessage(t *testing.T) {
	message := formatMessage(INFO, INFO.colorFunc(), "Scanned %d files", 42)

	if !strings.Contains(message, "INFO") {
		t.Error("Expected message to contain INFO level")
	}
	if !strings.Contains(message, "Scanned 42 files") {
		t.Error("Expected message to contain formatted text")
	}

	parts := strings.Split(message, " - ")
	if len(parts) < 2 {
		t.Error("Expected message to have timestamp - level : message format")
	}
}

func TestFormatMessageWithoutArgsKeepsPercent(t *testing.T) {
	literal := "class 100% done"
	message := formatMessage(INFO, INFO.colorFunc(), literal)
	if !strings.Contains(message, "class 100% done") {
		t.Errorf("Expected literal message, got %q", message)
	}
}

func TestOutputRouting(t *testing.T) {
	out, errOut := captureOutput(t)
	SetLevel(DEBUG)

	Debug("debug %s", "line")
	Info("info %s", "line")
	Warning("warning %s", "line")
	Success("success %s", "line")
	Header("header %s", "line")
	Error("error %s", "line")

	for _, want := range []string{"debug line", "info line", "warning line", "success line", "header line"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected stdout to contain %q", want)
		}
	}
	if strings.Contains(out.String(), "error line") {
		t.Error("Expected errors not to be written to stdout")
	}
	if !strings.Contains(errOut.String(), "error line") {
		t.Error("Expected stderr to contain the error")
	}
}

func TestLevelFiltering(t *testing.T) {
	out, _ := captureOutput(t)
	SetLevel(INFO)

	Debug("hidden")
	Info("shown")

	if strings.Contains(out.String(), "hidden") {
		t.Error("Expected debug output to be filtered at INFO level")
	}
	if !strings.Contains(out.String(), "shown") {
		t.Error("Expected info output at INFO level")
	}
}

func TestDebugCountsSorted(t *testing.T) {
	out, _ := captureOutput(t)
	SetLevel(DEBUG)

	DebugCounts("Skipped entries", map[string]int{"zebra": 1, "apple": 2})

	text := out.String()
	if !strings.Contains(text, "Skipped entries") {
		t.Error("Expected title in output")
	}
	if strings.Index(text, "apple") > strings.Index(text, "zebra") {
		t.Error("Expected counts to be sorted by key")
	}
}

func TestDebugHelpersSilentAtInfo(t *testing.T) {
	out, _ := captureOutput(t)
	SetLevel(INFO)

	DebugSystem()
	DebugConfig(map[string]interface{}{"format": "xlsx"})
	DebugCounts("counts", map[string]int{"a": 1})

	if out.Len() != 0 {
		t.Errorf("Expected no output at INFO level, got %q", out.String())
	}
}

func BenchmarkFormatMessage(b *testing.B) {
	for i := 0; i < b.N; i++ {
		formatMessage(INFO, INFO.colorFunc(), "Test message %d", i)
	}
}
