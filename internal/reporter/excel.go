package reporter

import (
	"fmt"

	"github.com/Vitruves/detection-report/internal/models"

	"github.com/xuri/excelize/v2"
)

type cellFill struct {
	background string
	font       string
	bold       bool
}

// region is an inclusive range of 1-based column numbers sharing a fill on
// class rows.
type region struct {
	first, last int
	fill        cellFill
}

type colWidth struct {
	first, last string
	width       float64
}

type sheetLayout struct {
	header  cellFill
	regions []region
	total   cellFill
	widths  []colWidth
}

var layouts = map[models.TableKind]sheetLayout{
	models.KindBins: {
		header: cellFill{background: "D9E1F2", bold: true},
		regions: []region{
			{2, 5, cellFill{background: "C6EFCE", font: "006100"}},
			{6, 9, cellFill{background: "F4CCCC", font: "9C0006"}},
			{10, 10, cellFill{background: "FCE4D6", font: "7F6000"}},
			{11, 11, cellFill{background: "FFD966", bold: true}},
		},
		total:  cellFill{background: "FFD966", bold: true},
		widths: []colWidth{{"A", "A", 20}, {"B", "K", 18}},
	},
	models.KindPredictions: {
		header: cellFill{background: "DCE6F1", bold: true},
		regions: []region{
			{3, 6, cellFill{background: "C6EFCE"}},
			{7, 10, cellFill{background: "FFC7CE"}},
		},
		total:  cellFill{background: "FFF2CC", bold: true},
		widths: []colWidth{{"A", "J", 15}},
	},
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// styler creates one workbook style per distinct fill.
type styler struct {
	f   *excelize.File
	ids map[cellFill]int
}

func (s *styler) id(fill cellFill) (int, error) {
	if id, ok := s.ids[fill]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Border:    thinBorder,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: fill.bold, Color: fill.font},
	}
	if fill.background != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill.background}, Pattern: 1}
	}

	id, err := s.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	s.ids[fill] = id
	return id, nil
}

func (r *Reporter) saveExcel(filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := r.sheetName
	f.SetSheetName("Sheet1", sheet)

	for i, column := range r.table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, column)
	}
	for i, row := range r.table.Rows {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	if layout, ok := layouts[r.table.Kind]; ok {
		if err := r.styleSheet(f, sheet, layout); err != nil {
			return err
		}
	}

	return f.SaveAs(filename)
}

func (r *Reporter) styleSheet(f *excelize.File, sheet string, layout sheetLayout) error {
	s := &styler{f: f, ids: make(map[cellFill]int)}
	lastCol := len(r.table.Columns)
	lastRow := len(r.table.Rows) + 1

	apply := func(fill cellFill, col1, row1, col2, row2 int) error {
		id, err := s.id(fill)
		if err != nil {
			return err
		}
		hCell, _ := excelize.CoordinatesToCellName(col1, row1)
		vCell, _ := excelize.CoordinatesToCellName(col2, row2)
		return f.SetCellStyle(sheet, hCell, vCell, id)
	}

	if err := apply(layout.header, 1, 1, lastCol, 1); err != nil {
		return err
	}

	// Class rows sit between the header and the total row.
	if classRows := len(r.table.ClassRows()); classRows > 0 {
		if err := apply(cellFill{}, 1, 2, lastCol, classRows+1); err != nil {
			return err
		}
		for _, reg := range layout.regions {
			if reg.last > lastCol {
				continue
			}
			if err := apply(reg.fill, reg.first, 2, reg.last, classRows+1); err != nil {
				return err
			}
		}
	}

	if len(r.table.Rows) > 0 {
		if err := apply(layout.total, 1, lastRow, lastCol, lastRow); err != nil {
			return err
		}
	}

	for _, w := range layout.widths {
		if err := f.SetColWidth(sheet, w.first, w.last, w.width); err != nil {
			return err
		}
	}

	return nil
}
