package reporter

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
)

// arrowSchema types each column after the total row: labels are strings,
// counts int64 and confidence statistics float64.
func (r *Reporter) arrowSchema() *arrow.Schema {
	total := r.table.TotalRow()
	fields := make([]arrow.Field, len(r.table.Columns))
	for i, name := range r.table.Columns {
		var dataType arrow.DataType = arrow.BinaryTypes.String
		if i < len(total) {
			switch total[i].(type) {
			case int:
				dataType = arrow.PrimitiveTypes.Int64
			case float64:
				dataType = arrow.PrimitiveTypes.Float64
			}
		}
		fields[i] = arrow.Field{Name: name, Type: dataType, Nullable: false}
	}
	return arrow.NewSchema(fields, nil)
}

func (r *Reporter) saveParquet(filename string) error {
	schema := r.arrowSchema()
	mem := memory.DefaultAllocator

	columns := make([]arrow.Column, len(schema.Fields()))
	for i, field := range schema.Fields() {
		arr, err := buildColumn(mem, field, r.table.Rows, i)
		if err != nil {
			return err
		}
		defer arr.Release()

		chunked := arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		defer chunked.Release()
		columns[i] = *arrow.NewColumn(field, chunked)
	}

	table := array.NewTable(schema, columns, int64(len(r.table.Rows)))
	defer table.Release()

	return writeTableToParquet(table, filename)
}

func buildColumn(mem memory.Allocator, field arrow.Field, rows [][]interface{}, col int) (arrow.Array, error) {
	builder := array.NewBuilder(mem, field.Type)
	defer builder.Release()

	for i, row := range rows {
		var value interface{}
		if col < len(row) {
			value = row[col]
		}

		switch b := builder.(type) {
		case *array.StringBuilder:
			b.Append(formatCell(value))
		case *array.Int64Builder:
			n, ok := value.(int)
			if !ok {
				return nil, fmt.Errorf("column %s row %d: expected integer, got %T", field.Name, i, value)
			}
			b.Append(int64(n))
		case *array.Float64Builder:
			switch v := value.(type) {
			case float64:
				b.Append(v)
			case int:
				b.Append(float64(v))
			default:
				return nil, fmt.Errorf("column %s row %d: expected number, got %T", field.Name, i, value)
			}
		default:
			return nil, fmt.Errorf("column %s: unsupported type %s", field.Name, field.Type)
		}
	}

	return builder.NewArray(), nil
}

func writeTableToParquet(table arrow.Table, filename string) error {
	outputFile, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	props := parquet.NewWriterProperties()
	arrowProps := pqarrow.ArrowWriterProperties{}

	writer, err := pqarrow.NewFileWriter(table.Schema(), outputFile, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.WriteTable(table, table.NumRows()); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}

	return writer.Close()
}
