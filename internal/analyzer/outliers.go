package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"datahealth/domain/quality"
	"datahealth/domain/table"
)

const iqrFactor = 1.5

// fence holds the IQR bounds of one numeric column
type fence struct {
	q1, q3       float64
	lower, upper float64
}

// quantile interpolates linearly between the closest ranks of sorted, using
// position (n-1)*p. sorted must be non-empty and ascending.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	xlo := sorted[int(lo)]
	if lo == hi {
		return xlo
	}
	return xlo + (h-lo)*(sorted[int(hi)]-xlo)
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	floats.Argsort(out, make([]int, len(out)))
	return out
}

// iqrFence computes the outlier bounds; ok is false when the column has no values
func iqrFence(values []float64) (fence, bool) {
	if len(values) == 0 {
		return fence{}, false
	}
	sorted := sortedCopy(values)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return fence{
		q1:    q1,
		q3:    q3,
		lower: q1 - iqrFactor*iqr,
		upper: q3 + iqrFactor*iqr,
	}, true
}

func (f fence) countOutside(values []float64) int {
	n := 0
	for _, v := range values {
		if v < f.lower || v > f.upper {
			n++
		}
	}
	return n
}

// numericOutliers returns the number of IQR-flagged cells per numeric column
// and the number of numeric columns.
func (a *Analyzer) numericOutliers() (flagged int, numericCols int) {
	for _, col := range a.table.Columns() {
		if col.Kind != table.KindNumeric {
			continue
		}
		numericCols++
		values := col.Floats()
		if f, ok := iqrFence(values); ok {
			flagged += f.countOutside(values)
		}
	}
	return flagged, numericCols
}

// Outliers reports numeric columns with at least one IQR outlier
func (a *Analyzer) Outliers() quality.Outliers {
	details := make([]quality.OutlierColumn, 0)

	for _, col := range a.table.Columns() {
		if col.Kind != table.KindNumeric {
			continue
		}
		values := col.Floats()
		f, ok := iqrFence(values)
		if !ok {
			continue
		}
		count := f.countOutside(values)
		if count == 0 {
			continue
		}
		details = append(details, quality.OutlierColumn{
			Column:       col.Name,
			OutlierCount: count,
			Percentage:   round2(percentOf(count, a.TotalRows)),
			LowerBound:   finite(round2(f.lower)),
			UpperBound:   finite(round2(f.upper)),
			MinValue:     finite(round2(floats.Min(values))),
			MaxValue:     finite(round2(floats.Max(values))),
		})
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Percentage > details[j].Percentage
	})

	return quality.Outliers{
		ColumnsWithOutliers: len(details),
		Details:             details,
	}
}
