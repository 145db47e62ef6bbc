// Package analyzer scores the quality of a loaded table and builds the
// diagnostic report. Every check is a pure function of the table.
package analyzer

import (
	"math"
	"sort"

	"datahealth/domain/table"
)

// Analyzer runs the quality checks over one table
type Analyzer struct {
	table     *table.Table
	TotalRows int
	TotalCols int
}

// New creates an analyzer for t
func New(t *table.Table) *Analyzer {
	return &Analyzer{
		table:     t,
		TotalRows: t.NumRows(),
		TotalCols: t.NumCols(),
	}
}

// Table returns the analysed table
func (a *Analyzer) Table() *table.Table {
	return a.table
}

func (a *Analyzer) totalCells() int {
	return a.TotalRows * a.TotalCols
}

// percentOf returns part/whole*100, or 0 for an empty whole
func percentOf(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// finite returns nil for NaN and infinities, which have no JSON encoding
func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

// cell returns v with non-finite numbers replaced by nil
func cell(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// record replaces the non-finite cells of rec with nil
func record(rec table.Record) table.Record {
	for k, v := range rec {
		rec[k] = cell(v)
	}
	return rec
}

func floorZero(x float64) float64 {
	return math.Max(0, x)
}

// valueCounts orders the distinct non-null labels of a column by frequency,
// most frequent first; ties keep first-occurrence order.
func valueCounts(col table.Column) []labelCount {
	index := make(map[string]int)
	var counts []labelCount

	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		key := v.Key()
		if i, ok := index[key]; ok {
			counts[i].count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, labelCount{label: v.String(), count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	return counts
}

type labelCount struct {
	label string
	count int
}
