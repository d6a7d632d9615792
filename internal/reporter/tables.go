package reporter

import (
	"github.com/Vitruves/detection-report/internal/aggregate"
	"github.com/Vitruves/detection-report/internal/models"
)

// Column headers of the directory pipeline report.
const (
	ColumnClass        = "Class"
	ColumnTrueTotal    = "True_Total"
	ColumnTrueBelow50  = "True_Below_50"
	ColumnTrue50To70   = "True_50_70"
	ColumnTrueAbove70  = "True_Above_70"
	ColumnFalseTotal   = "False_Total"
	ColumnFalseBelow50 = "False_Below_50"
	ColumnFalse50To70  = "False_50_70"
	ColumnFalseAbove70 = "False_Above_70"
	ColumnMissedCount  = "Missed_Count"
	ColumnTotalCount   = "Total_Count"
)

// Column headers of the prediction report.
const (
	ColumnActualClass    = models.ColumnActualClass
	ColumnTruePredCount  = "True_Pred_Count"
	ColumnMaxTrue        = "Max_True"
	ColumnMinTrue        = "Min_True"
	ColumnAvgTrue        = "AVG_True"
	ColumnFalsePredCount = "False_Pred_Count"
	ColumnMaxFalse       = "Max_False"
	ColumnMinFalse       = "Min_False"
	ColumnAvgFalse       = "AVG_False"
)

var BinColumns = []string{
	ColumnClass,
	ColumnTrueTotal, ColumnTrueBelow50, ColumnTrue50To70, ColumnTrueAbove70,
	ColumnFalseTotal, ColumnFalseBelow50, ColumnFalse50To70, ColumnFalseAbove70,
	ColumnMissedCount, ColumnTotalCount,
}

var PredictionReportColumns = []string{
	ColumnActualClass, ColumnTotalCount,
	ColumnTruePredCount, ColumnMaxTrue, ColumnMinTrue, ColumnAvgTrue,
	ColumnFalsePredCount, ColumnMaxFalse, ColumnMinFalse, ColumnAvgFalse,
}

// BinsTable lays out a directory summary: one row per class in summary order,
// then the total row.
func BinsTable(summary *aggregate.BinSummary) *models.Table {
	table := &models.Table{
		Kind:    models.KindBins,
		Columns: append([]string(nil), BinColumns...),
		Rows:    make([][]interface{}, 0, len(summary.Classes)+1),
	}
	for _, class := range summary.Classes {
		table.Rows = append(table.Rows, binRow(class.Label, class.Counts))
	}
	table.Rows = append(table.Rows, binRow(models.TotalLabel, summary.Total))
	return table
}

func binRow(label string, c aggregate.BinCounts) []interface{} {
	return []interface{}{
		label,
		c.TrueTotal, c.TrueBelow50, c.True50To70, c.TrueAbove70,
		c.FalseTotal, c.FalseBelow50, c.False50To70, c.FalseAbove70,
		c.MissedCount, c.TotalCount,
	}
}

// PredictionsTable lays out a prediction summary the same way.
func PredictionsTable(summary *aggregate.PredictionSummary) *models.Table {
	table := &models.Table{
		Kind:    models.KindPredictions,
		Columns: append([]string(nil), PredictionReportColumns...),
		Rows:    make([][]interface{}, 0, len(summary.Classes)+1),
	}
	for _, class := range summary.Classes {
		table.Rows = append(table.Rows, predictionRow(class))
	}
	table.Rows = append(table.Rows, predictionRow(summary.Total))
	return table
}

func predictionRow(c aggregate.PredictionClass) []interface{} {
	return []interface{}{
		c.Label, c.TotalCount,
		c.True.Count, c.True.Max, c.True.Min, c.True.Mean,
		c.False.Count, c.False.Max, c.False.Min, c.False.Mean,
	}
}
