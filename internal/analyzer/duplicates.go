package analyzer

import (
	"sort"
	"strconv"
	"strings"

	"datahealth/domain/quality"
	"datahealth/domain/table"
)

// cellKey maps a cell of col to the key used for row equality
type cellKey func(col table.Column, v table.Value) string

func rawCellKey(_ table.Column, v table.Value) string {
	return v.Key()
}

// missingTokens collapse to null when comparing normalized text
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
}

// normalizedCellKey trims and lowercases text cells and folds the missing
// tokens into the null key; other kinds compare raw.
func normalizedCellKey(col table.Column, v table.Value) string {
	if col.Kind != table.KindText || v.IsNull() {
		return v.Key()
	}
	s, _ := v.Text()
	s = strings.ToLower(strings.TrimSpace(s))
	if _, missing := missingTokens[s]; missing {
		return table.NullKey
	}
	return "s:" + s
}

func rowKey(cols []table.Column, row int, key cellKey) string {
	var b strings.Builder
	for _, col := range cols {
		k := key(col, col.Values[row])
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}

// isIdentifierColumn matches any column whose name contains "id", e.g. "user_id"
// but also "video_title".
func isIdentifierColumn(name string) bool {
	return strings.Contains(strings.ToLower(name), "id")
}

// Duplicates reports content duplicates on the normalized table and
// repeated values per column on the original table
func (a *Analyzer) Duplicates() quality.Duplicates {
	all := a.table.Columns()

	content := make([]table.Column, 0, len(all))
	for _, col := range all {
		if !isIdentifierColumn(col.Name) {
			content = append(content, col)
		}
	}

	result := quality.Duplicates{
		DuplicateRowSamples: make([]table.Record, 0),
		ColumnDuplicates:    make([]quality.ColumnDuplicate, 0),
	}

	if len(content) > 0 {
		keys := make([]string, a.TotalRows)
		groupSize := make(map[string]int, a.TotalRows)
		for i := range keys {
			keys[i] = rowKey(content, i, normalizedCellKey)
			groupSize[keys[i]]++
			if groupSize[keys[i]] > 1 {
				result.FullRowDuplicates++
			}
		}
		for i, key := range keys {
			if groupSize[key] > 1 {
				result.DuplicateRowSamples = append(result.DuplicateRowSamples, record(a.table.Row(i)))
			}
		}
	}
	result.Percentage = round2(percentOf(result.FullRowDuplicates, a.TotalRows))

	for _, col := range all {
		seen := make(map[string]struct{}, len(col.Values))
		repeats := 0
		for _, v := range col.Values {
			key := v.Key()
			if _, ok := seen[key]; ok {
				repeats++
				continue
			}
			seen[key] = struct{}{}
		}
		if repeats == 0 {
			continue
		}
		result.ColumnDuplicates = append(result.ColumnDuplicates, quality.ColumnDuplicate{
			Column:     col.Name,
			Count:      repeats,
			Percentage: round2(percentOf(repeats, a.TotalRows)),
		})
	}

	sort.SliceStable(result.ColumnDuplicates, func(i, j int) bool {
		return result.ColumnDuplicates[i].Percentage > result.ColumnDuplicates[j].Percentage
	})

	return result
}
