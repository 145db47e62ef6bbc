package analyzer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"datahealth/domain/table"
)

// TryParseNumber reports whether s is a plain number (surrounding spaces allowed)
func TryParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeError(err) {
		return 0, false
	}
	return f, true
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// TryParseDate makes a best-effort attempt to read s as a date or timestamp
func TryParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	defer func() {
		// dateparse has panicked on malformed input in the past
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// allText applies probe to every non-null cell of a text column. A column
// without any non-null cell qualifies vacuously.
func allText(col table.Column, probe func(string) bool) bool {
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		s, ok := v.Text()
		if !ok || !probe(s) {
			return false
		}
	}
	return true
}

func numericText(col table.Column) bool {
	return allText(col, func(s string) bool {
		_, ok := TryParseNumber(s)
		return ok
	})
}

func dateText(col table.Column) bool {
	return allText(col, func(s string) bool {
		_, ok := TryParseDate(s)
		return ok
	})
}

// coerceDate converts one cell the way a lenient datetime cast would:
// timestamps and finite numbers (epoch offsets) pass, text is parsed.
func coerceDate(v table.Value) bool {
	if v.IsNull() {
		return false
	}
	if _, ok := v.Timestamp(); ok {
		return true
	}
	if f, ok := v.Float(); ok {
		return !math.IsInf(f, 0)
	}
	s, _ := v.Text()
	_, ok := TryParseDate(s)
	return ok
}
