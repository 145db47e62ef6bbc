package analyzer

import (
	"sort"
	"strings"

	"datahealth/domain/quality"
	"datahealth/domain/table"
)

const (
	categoricalMaxDistinct = 100
	categoricalMaxDetails  = 10
	categoricalTopValues   = 5

	imbalanceMinClasses = 2
	imbalanceMaxClasses = 20
	imbalanceThreshold  = 2.0
	imbalanceHigh       = 10.0

	dateSampleSize = 3
)

// dateKeywords select the columns examined by the date format check
var dateKeywords = []string{"date", "time", "timestamp", "dob", "day", "month", "year"}

// MissingValues counts null cells per column
func (a *Analyzer) MissingValues() quality.MissingValues {
	details := make([]quality.MissingColumn, 0)
	total := 0

	for _, col := range a.table.Columns() {
		n := col.NullCount()
		if n == 0 {
			continue
		}
		total += n
		details = append(details, quality.MissingColumn{
			Column:     col.Name,
			Count:      n,
			Percentage: round2(percentOf(n, a.TotalRows)),
		})
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Percentage > details[j].Percentage
	})

	return quality.MissingValues{
		TotalMissing:    total,
		TotalCells:      a.totalCells(),
		Percentage:      round2(percentOf(total, a.totalCells())),
		ColumnsAffected: len(details),
		Details:         details,
	}
}

// DataTypes lists every column's kind and flags text columns that hold
// numbers or dates. A column gets at most one issue; numbers win.
func (a *Analyzer) DataTypes() quality.DataTypes {
	result := quality.DataTypes{
		TypeDistribution: make([]quality.ColumnType, 0, a.TotalCols),
		TypeIssues:       make([]quality.TypeIssue, 0),
	}

	for _, col := range a.table.Columns() {
		result.TypeDistribution = append(result.TypeDistribution, quality.ColumnType{
			Column:       col.Name,
			CurrentType:  string(col.Kind),
			UniqueValues: col.Distinct(),
			NullCount:    col.NullCount(),
		})

		if col.Kind != table.KindText {
			continue
		}
		switch {
		case numericText(col):
			result.TypeIssues = append(result.TypeIssues, quality.TypeIssue{
				Column:        col.Name,
				Issue:         quality.IssueNumericAsText,
				SuggestedType: quality.SuggestNumeric,
			})
		case dateText(col):
			result.TypeIssues = append(result.TypeIssues, quality.TypeIssue{
				Column:        col.Name,
				Issue:         quality.IssueDateAsText,
				SuggestedType: quality.SuggestDatetime,
			})
		}
	}

	return result
}

// CategoricalConsistency inspects low-cardinality label columns for spelling variants
func (a *Analyzer) CategoricalConsistency() quality.CategoricalConsistency {
	details := make([]quality.CategoricalColumn, 0)

	for _, col := range a.table.Columns() {
		if !col.IsTextual() {
			continue
		}
		counts := valueCounts(col)
		if len(counts) >= categoricalMaxDistinct {
			continue
		}

		top := make(quality.ValueCounts, 0, categoricalTopValues)
		for i := 0; i < len(counts) && i < categoricalTopValues; i++ {
			top = append(top, quality.ValueCount{Value: counts[i].label, Count: counts[i].count})
		}

		entry := quality.CategoricalColumn{
			Column:       col.Name,
			UniqueValues: len(counts),
			MostCommon:   top,
		}
		if col.Kind == table.KindText && cleanedDistinct(col) != len(counts) {
			label := quality.InconsistencyCaseWhitespace
			entry.HasInconsistency = true
			entry.InconsistencyType = &label
		}
		details = append(details, entry)
	}

	result := quality.CategoricalConsistency{CategoricalColumns: len(details)}
	if len(details) > categoricalMaxDetails {
		details = details[:categoricalMaxDetails]
	}
	result.Details = details
	return result
}

// cleanedDistinct counts distinct text values after trimming and lowercasing
func cleanedDistinct(col table.Column) int {
	seen := make(map[string]struct{})
	for _, v := range col.Values {
		s, ok := v.Text()
		if !ok {
			continue
		}
		seen[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return len(seen)
}

func isDateNamed(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range dateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DateFormats tries to read date-named columns as dates and counts the cells that fail
func (a *Analyzer) DateFormats() quality.DateFormats {
	details := make([]quality.DateColumn, 0)

	for _, col := range a.table.Columns() {
		if !isDateNamed(col.Name) {
			continue
		}

		originalNull := 0
		failed := 0
		samples := make([]interface{}, 0, dateSampleSize)
		for _, v := range col.Values {
			if v.IsNull() {
				originalNull++
				continue
			}
			if len(samples) < dateSampleSize {
				samples = append(samples, cell(v.Interface()))
			}
			if !coerceDate(v) {
				failed++
			}
		}
		nullAfter := originalNull + failed
		valid := a.TotalRows - nullAfter

		switch {
		case failed > 0:
			details = append(details, quality.DateColumn{
				Column:       col.Name,
				Status:       quality.DateStatusInvalid,
				ValidDates:   valid,
				InvalidDates: failed,
				SampleValues: samples,
			})
		case nullAfter < a.TotalRows:
			details = append(details, quality.DateColumn{
				Column:       col.Name,
				Status:       quality.DateStatusValid,
				ValidDates:   valid,
				InvalidDates: 0,
				SampleValues: samples,
			})
		}
	}

	return quality.DateFormats{
		DateColumnsFound: len(details),
		Details:          details,
	}
}

// ClassImbalance flags label columns whose most common class outnumbers the
// least common by more than two to one
func (a *Analyzer) ClassImbalance() quality.ClassImbalance {
	details := make([]quality.ImbalancedColumn, 0)

	for _, col := range a.table.Columns() {
		if !col.IsTextual() {
			continue
		}
		counts := valueCounts(col)
		if len(counts) < imbalanceMinClasses || len(counts) > imbalanceMaxClasses {
			continue
		}

		most, least := counts[0], counts[len(counts)-1]
		ratio := float64(most.count) / float64(least.count)
		if ratio <= imbalanceThreshold {
			continue
		}

		severity := quality.SeverityMedium
		if ratio > imbalanceHigh {
			severity = quality.SeverityHigh
		}
		details = append(details, quality.ImbalancedColumn{
			Column:           col.Name,
			UniqueClasses:    len(counts),
			ImbalanceRatio:   round2(ratio),
			MostCommonClass:  most.label,
			MostCommonCount:  most.count,
			LeastCommonClass: least.label,
			LeastCommonCount: least.count,
			Severity:         severity,
		})
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].ImbalanceRatio > details[j].ImbalanceRatio
	})

	return quality.ClassImbalance{
		ColumnsWithImbalance: len(details),
		Details:              details,
	}
}
