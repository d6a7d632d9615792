package reporter

import (
	"strconv"
	"strings"

	"github.com/Vitruves/detection-report/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	previewTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	previewHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("63"))

	previewTotalStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("220"))

	previewRuleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	previewCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)

const columnGap = "  "

var titles = map[models.TableKind]string{
	models.KindBins:        "Detections per class and confidence bin",
	models.KindPredictions: "True and false predictions per class",
}

// GenerateText renders the table for a terminal.
func (r *Reporter) GenerateText() string {
	return r.render(true)
}

// GeneratePlain renders the same layout without colours or borders.
func (r *Reporter) GeneratePlain() string {
	return r.render(false)
}

func (r *Reporter) render(styled bool) string {
	cells := r.textCells()
	widths := columnWidths(cells)

	width := 0
	for _, w := range widths {
		width += w
	}
	width += len(columnGap) * (len(widths) - 1)

	lines := make([]string, 0, len(cells)+3)
	for i, row := range cells {
		var base lipgloss.Style
		if styled {
			switch {
			case i == 0:
				base = previewHeaderStyle
			case i == len(cells)-1:
				base = previewTotalStyle
			}
		}

		parts := make([]string, len(row))
		for j, cell := range row {
			align := lipgloss.Right
			if j == 0 {
				align = lipgloss.Left
			}
			parts[j] = base.Width(widths[j]).Align(align).Render(cell)
		}
		lines = append(lines, strings.Join(parts, columnGap))

		// Rules below the header and above the total row.
		if i == 0 || i == len(cells)-2 {
			rule := strings.Repeat("-", width)
			if styled {
				rule = previewRuleStyle.Render(strings.Repeat("─", width))
			}
			lines = append(lines, rule)
		}
	}

	title := titles[r.table.Kind]
	if !styled {
		return title + "\n\n" + strings.Join(lines, "\n") + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		previewTitleStyle.Render(title),
		previewCardStyle.Render(strings.Join(lines, "\n")),
	) + "\n"
}

// textCells returns the header followed by every row, formatted for display.
func (r *Reporter) textCells() [][]string {
	cells := make([][]string, 0, len(r.table.Rows)+1)
	cells = append(cells, r.table.Columns)
	for _, row := range r.table.Rows {
		line := make([]string, len(row))
		for i, value := range row {
			switch v := value.(type) {
			case float64:
				line[i] = strconv.FormatFloat(v, 'f', 2, 64)
			default:
				line[i] = formatCell(v)
			}
		}
		cells = append(cells, line)
	}
	return cells
}

func columnWidths(cells [][]string) []int {
	var widths []int
	for _, row := range cells {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}
