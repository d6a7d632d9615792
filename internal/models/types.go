package models

type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
}

type InputConfig struct {
	ImageExtensions  []string `yaml:"image_extensions"`
	NoDetectionLabel string   `yaml:"no_detection_label"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
	Format    string `yaml:"format"`
	SheetName string `yaml:"sheet_name"`
	Preview   bool   `yaml:"preview"`
}

// Outcome categories of the directory taxonomy.
const (
	CategoryTrue   = "True"
	CategoryFalse  = "False"
	CategoryMissed = "Missed"
)

// Confidence bins below the True and False categories.
const (
	BinBelow50 = "Below_50"
	Bin50To70  = "50_70"
	BinAbove70 = "Above_70"
)

var (
	BinnedCategories = []string{CategoryTrue, CategoryFalse}
	Bins             = []string{BinBelow50, Bin50To70, BinAbove70}
)

// BinEntry is one regular file found under category/class[/bin].
// Bin is empty for the Missed category.
type BinEntry struct {
	Category string
	Class    string
	Bin      string
	File     string
}

// Column names of a prediction results file.
const (
	ColumnActualClass   = "Actual Class"
	ColumnDetectedClass = "Detected Class"
	ColumnDetectionType = "Detection Type"
	ColumnConfidence    = "Confidence"
)

var PredictionColumns = []string{
	ColumnActualClass,
	ColumnDetectedClass,
	ColumnDetectionType,
	ColumnConfidence,
}

// Prediction is one row of a detection results file.
type Prediction struct {
	Index         int
	ActualClass   string
	DetectedClass string
	DetectionType string
	Confidence    float64
}

type TableKind string

const (
	KindBins        TableKind = "bins"
	KindPredictions TableKind = "predictions"
)

// TotalLabel is the class cell of the synthetic total row.
const TotalLabel = "Total"

// Table is a finished report in row-major order. The last row is always the
// total row. Cells hold string, int or float64 values.
type Table struct {
	Kind    TableKind
	Columns []string
	Rows    [][]interface{}
}

// ClassRows returns every row except the total row.
func (t *Table) ClassRows() [][]interface{} {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[:len(t.Rows)-1]
}

// TotalRow returns the final row, or nil for an empty table.
func (t *Table) TotalRow() []interface{} {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[len(t.Rows)-1]
}

// Records maps each row onto the column names.
func (t *Table) Records() []map[string]interface{} {
	records := make([]map[string]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		record := make(map[string]interface{}, len(t.Columns))
		for j, column := range t.Columns {
			if j < len(row) {
				record[column] = row[j]
			}
		}
		records[i] = record
	}
	return records
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}
	return -1
}
