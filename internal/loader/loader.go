package loader

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Vitruves/detection-report/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrInvalidConfidence = errors.New("invalid confidence")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// rawTable is a decoded input file before column validation.
type rawTable struct {
	headers []string
	rows    []rawRow
}

type rawRow struct {
	index  int
	values map[string]interface{}
}

// LoadPredictions reads a detection results file (CSV, XLSX, JSON or Parquet)
// and returns one Prediction per data row. Columns other than the four
// required ones are ignored.
func LoadPredictions(filename string) ([]models.Prediction, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		table *rawTable
		err   error
	)
	switch ext {
	case ".csv":
		table, err = loadCSV(filename)
	case ".json":
		table, err = loadJSON(filename)
	case ".xlsx", ".xlsm":
		table, err = loadExcel(filename)
	case ".parquet":
		table, err = loadParquet(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	return toPredictions(table)
}

func toPredictions(table *rawTable) ([]models.Prediction, error) {
	present := make(map[string]bool, len(table.headers))
	for _, h := range table.headers {
		present[h] = true
	}
	var missing []string
	for _, column := range models.PredictionColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	predictions := make([]models.Prediction, 0, len(table.rows))
	for _, row := range table.rows {
		confidence, err := toFloat(row.values[models.ColumnConfidence])
		if err != nil {
			return nil, fmt.Errorf("%w at row %d: %v", ErrInvalidConfidence, row.index, err)
		}
		predictions = append(predictions, models.Prediction{
			Index:         row.index,
			ActualClass:   toString(row.values[models.ColumnActualClass]),
			DetectedClass: toString(row.values[models.ColumnDetectedClass]),
			DetectionType: toString(row.values[models.ColumnDetectionType]),
			Confidence:    confidence,
		})
	}
	return predictions, nil
}

func cleanHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}

func loadCSV(filename string) (*rawTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range headers {
		headers[i] = cleanHeader(headers[i])
	}

	table := &rawTable{headers: headers}
	filePosition := 0

	// Rows with the wrong column count are skipped, but still advance the
	// position so indexes match the file.
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			filePosition++
			continue
		}
		if len(record) != len(headers) {
			filePosition++
			continue
		}

		row := rawRow{index: filePosition, values: make(map[string]interface{}, len(headers))}
		for j, value := range record {
			row.values[headers[j]] = value
		}
		table.rows = append(table.rows, row)
		filePosition++
	}

	return table, nil
}

func loadJSON(filename string) (*rawTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rawData []map[string]interface{}
	if err := json.NewDecoder(file).Decode(&rawData); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	seen := make(map[string]bool)
	table := &rawTable{}
	for i, item := range rawData {
		values := make(map[string]interface{}, len(item))
		for key, value := range item {
			h := cleanHeader(key)
			values[h] = value
			if !seen[h] {
				seen[h] = true
				table.headers = append(table.headers, h)
			}
		}
		table.rows = append(table.rows, rawRow{index: i, values: values})
	}
	sort.Strings(table.headers)

	return table, nil
}

func loadExcel(filename string) (*rawTable, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found")
	}

	// Stored values, not the formatted text, so a 0.00 or 0% number format
	// does not change the confidence.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Excel file has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = cleanHeader(h)
	}

	table := &rawTable{headers: headers}
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		values := make(map[string]interface{}, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(row) {
				values[h] = row[j]
			} else {
				values[h] = ""
			}
		}
		table.rows = append(table.rows, rawRow{index: i, values: values})
	}

	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func loadParquet(filename string) (*rawTable, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	columns := pf.Schema().Columns()
	table := &rawTable{headers: make([]string, len(columns))}
	for i, columnPath := range columns {
		table.headers[i] = cleanHeader(columnPath[len(columnPath)-1])
	}

	rowIndex := 0
	for _, rowGroup := range pf.RowGroups() {
		buf := make([]parquet.Row, rowGroup.NumRows())
		rows := rowGroup.Rows()
		n, err := rows.ReadRows(buf)
		rows.Close()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}

		for i := 0; i < n; i++ {
			values := make(map[string]interface{}, len(columns))
			buf[i].Range(func(columnIndex int, columnValues []parquet.Value) bool {
				if columnIndex < len(columns) && len(columnValues) > 0 {
					values[table.headers[columnIndex]] = parquetValue(columnValues[0])
				}
				return true
			})
			table.rows = append(table.rows, rawRow{index: rowIndex, values: values})
			rowIndex++
		}
	}

	return table, nil
}

func parquetValue(value parquet.Value) interface{} {
	if value.IsNull() {
		return nil
	}
	switch value.Kind() {
	case parquet.Boolean:
		return value.Boolean()
	case parquet.Int32:
		return value.Int32()
	case parquet.Int64:
		return value.Int64()
	case parquet.Float:
		return value.Float()
	case parquet.Double:
		return value.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(value.ByteArray())
	default:
		return value.String()
	}
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toFloat converts a cell to a confidence. Non-finite and negative values
// are rejected.
func toFloat(v interface{}) (float64, error) {
	f, err := parseFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number", v)
	}
	if f < 0 {
		return 0, fmt.Errorf("%v is negative", v)
	}
	return f, nil
}

func parseFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, fmt.Errorf("value is empty")
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, fmt.Errorf("value is empty")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", val, val)
	}
}
