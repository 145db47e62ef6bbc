package analyzer

import (
	"github.com/montanaflynn/stats"

	"datahealth/domain/quality"
	"datahealth/domain/table"
)

// Summary reports the table shape and describe() statistics per numeric column
func (a *Analyzer) Summary() quality.Summary {
	summary := quality.Summary{
		TotalRows:      a.TotalRows,
		TotalColumns:   a.TotalCols,
		NumericSummary: make(map[string]quality.NumericSummary),
	}

	for _, col := range a.table.Columns() {
		switch {
		case col.Kind == table.KindNumeric:
			summary.NumericColumns++
			summary.NumericSummary[col.Name] = describe(col.Floats())
		case col.IsTextual():
			summary.CategoricalColumns++
		}
	}

	return summary
}

func describe(values []float64) quality.NumericSummary {
	out := quality.NumericSummary{Count: len(values)}
	if len(values) == 0 {
		return out
	}

	data := stats.Float64Data(values)
	if mean, err := data.Mean(); err == nil {
		out.Mean = finite(mean)
	}
	if len(values) > 1 {
		if std, err := data.StandardDeviationSample(); err == nil {
			out.Std = finite(std)
		}
	}
	if lo, err := data.Min(); err == nil {
		out.Min = finite(lo)
	}
	if hi, err := data.Max(); err == nil {
		out.Max = finite(hi)
	}

	sorted := sortedCopy(values)
	out.Q25 = finite(quantile(sorted, 0.25))
	out.Q50 = finite(quantile(sorted, 0.50))
	out.Q75 = finite(quantile(sorted, 0.75))

	return out
}
