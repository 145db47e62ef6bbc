package analyzer

import (
	"gonum.org/v1/gonum/stat"

	"datahealth/domain/table"
)

// Health score weights; they sum to 1
const (
	weightMissing   = 0.30
	weightDuplicate = 0.25
	weightTypes     = 0.20
	weightBalance   = 0.15
	weightOutliers  = 0.10
)

const balanceMaxCategories = 20

// SubScores are the five components of the health score, each in [0,100]
type SubScores struct {
	Missing    float64 `json:"missing"`
	Duplicates float64 `json:"duplicates"`
	Types      float64 `json:"types"`
	Balance    float64 `json:"balance"`
	Outliers   float64 `json:"outliers"`
}

// Weighted combines the sub-scores and rounds to two decimals
func (s SubScores) Weighted() float64 {
	return round2(s.Missing*weightMissing +
		s.Duplicates*weightDuplicate +
		s.Types*weightTypes +
		s.Balance*weightBalance +
		s.Outliers*weightOutliers)
}

// HealthScore computes the 0-100 health score without building detail blocks
func (a *Analyzer) HealthScore() float64 {
	return a.SubScores().Weighted()
}

// SubScores computes each weighted component of the health score
func (a *Analyzer) SubScores() SubScores {
	return SubScores{
		Missing:    floorZero(100 - 2*a.missingCellPct()),
		Duplicates: floorZero(100 - 3*a.exactDuplicatePct()),
		Types:      floorZero(100 - 100*a.numericTextRatio()),
		Balance:    a.balanceScore(),
		Outliers:   floorZero(100 - 2*a.outlierCellPct()),
	}
}

func (a *Analyzer) missingCellPct() float64 {
	missing := 0
	for _, col := range a.table.Columns() {
		missing += col.NullCount()
	}
	return percentOf(missing, a.totalCells())
}

// exactDuplicatePct counts rows identical to an earlier row over all columns
func (a *Analyzer) exactDuplicatePct() float64 {
	cols := a.table.Columns()
	seen := make(map[string]struct{}, a.TotalRows)
	dups := 0
	for i := 0; i < a.TotalRows; i++ {
		key := rowKey(cols, i, rawCellKey)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return percentOf(dups, a.TotalRows)
}

// numericTextRatio is the share of columns that are text holding only numbers
func (a *Analyzer) numericTextRatio() float64 {
	if a.TotalCols == 0 {
		return 0
	}
	issues := 0
	for _, col := range a.table.Columns() {
		if col.Kind == table.KindText && numericText(col) {
			issues++
		}
	}
	return float64(issues) / float64(a.TotalCols)
}

// balanceScore averages per-column balance over low-cardinality label columns
func (a *Analyzer) balanceScore() float64 {
	var scores []float64
	for _, col := range a.table.Columns() {
		if !col.IsTextual() {
			continue
		}
		counts := valueCounts(col)
		if len(counts) < 2 || len(counts) >= balanceMaxCategories {
			continue
		}
		ratio := float64(counts[0].count) / float64(counts[len(counts)-1].count)
		scores = append(scores, floorZero(100-(ratio-1)*10))
	}
	if len(scores) == 0 {
		return 100
	}
	return stat.Mean(scores, nil)
}

func (a *Analyzer) outlierCellPct() float64 {
	flagged, numericCols := a.numericOutliers()
	return percentOf(flagged, a.TotalRows*numericCols)
}
