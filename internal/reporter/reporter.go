package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Vitruves/detection-report/internal/models"
)

const DefaultSheetName = "Summary"

// Formats accepted by SaveToFile, mapped to their file extension.
var Extensions = map[string]string{
	"xlsx":    ".xlsx",
	"csv":     ".csv",
	"json":    ".json",
	"parquet": ".parquet",
	"text":    ".txt",
}

type Reporter struct {
	table     *models.Table
	sheetName string
}

func New(table *models.Table, sheetName string) *Reporter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Reporter{
		table:     table,
		sheetName: sheetName,
	}
}

func (r *Reporter) Table() *models.Table {
	return r.table
}

func (r *Reporter) GenerateJSON() (string, error) {
	output := map[string]interface{}{
		"kind":    r.table.Kind,
		"columns": r.table.Columns,
		"rows":    r.table.Records(),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (r *Reporter) SaveToFile(filename, format string) error {
	switch format {
	case "json":
		return r.saveJSON(filename)
	case "text":
		return r.saveText(filename)
	case "csv":
		return r.saveCSV(filename)
	case "xlsx":
		return r.saveExcel(filename)
	case "parquet":
		return r.saveParquet(filename)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (r *Reporter) saveJSON(filename string) error {
	content, err := r.GenerateJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

func (r *Reporter) saveText(filename string) error {
	return os.WriteFile(filename, []byte(r.GeneratePlain()), 0644)
}

func (r *Reporter) saveCSV(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(r.table.Columns); err != nil {
		return err
	}
	for _, row := range r.table.Rows {
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = formatCell(value)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
