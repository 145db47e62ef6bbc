// Package loader reads uploaded CSV, Excel and JSON files into tables.
package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"datahealth/domain/table"
	"datahealth/internal/errors"
	"datahealth/internal/logger"
)

// nullTokens are read as missing cells, matching the usual CSV NA set
var nullTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNullToken reports whether a raw cell is read as missing
func IsNullToken(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// Supported reports whether filename has an extension Load understands
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xls", ".json":
		return true
	}
	return false
}

// Load parses r according to the extension of filename
func Load(filename string, r io.Reader) (*table.Table, error) {
	start := time.Now()
	log := logger.Component("Loader").WithField("file", filepath.Base(filename))

	var (
		t   *table.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		t, err = readCSV(r)
	case ".xlsx", ".xls":
		t, err = readExcel(r)
	case ".json":
		t, err = readJSON(r)
	default:
		return nil, errors.UnsupportedFormat(filepath.Base(filename))
	}
	if err != nil {
		log.WithError(err).Warn("failed to load file")
		return nil, err
	}

	log.WithField("rows", t.NumRows()).
		WithField("cols", t.NumCols()).
		Debugf("loaded in %.2fms", float64(time.Since(start).Nanoseconds())/1e6)
	return t, nil
}

// fromRows turns a header row plus string rows into a table
func fromRows(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, errors.InvalidInput("file has no header row")
	}

	headers := headerNames(rows[0])
	cells := make([][]*string, len(headers))
	for c := range cells {
		cells[c] = make([]*string, 0, len(rows)-1)
	}

	for i, row := range rows[1:] {
		if extra := trailing(row, len(headers)); extra {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d fields, expected %d", i+2, len(row), len(headers)))
		}
		for c := range headers {
			var cell *string
			if c < len(row) && !IsNullToken(row[c]) {
				value := row[c]
				cell = &value
			}
			cells[c] = append(cells[c], cell)
		}
	}

	columns := make([]table.Column, len(headers))
	for c, name := range headers {
		columns[c] = inferColumn(name, cells[c])
	}
	return table.New(columns...)
}

// trailing reports whether row carries non-empty cells beyond width
func trailing(row []string, width int) bool {
	for _, cell := range row[min(len(row), width):] {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// headerNames trims names, fills blanks as "Unnamed: i" and suffixes repeats with ".n"
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	suffix := make(map[string]int)
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		for base := name; used[name]; {
			suffix[base]++
			name = base + "." + strconv.Itoa(suffix[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// inferColumn makes a numeric column when every present cell is a number,
// otherwise a text column with the cells as written
func inferColumn(name string, cells []*string) table.Column {
	numbers := make([]*float64, len(cells))
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		f, ok := parseNumber(*cell)
		if !ok {
			return table.TextColumn(name, cells...)
		}
		numbers[i] = &f
	}
	return table.NumericColumn(name, numbers...)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return 0, false
		}
	}
	return f, true
}
