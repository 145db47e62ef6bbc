package table

import (
	"math"
	"strconv"
	"time"
)

type valueKind uint8

const (
	nullValue valueKind = iota
	numberValue
	stringValue
	timeValue
)

// Value is a single cell. The zero Value is null.
type Value struct {
	kind valueKind
	num  float64
	str  string
	at   time.Time
}

// Null returns a missing cell
func Null() Value {
	return Value{}
}

// Number returns a numeric cell. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: numberValue, num: f}
}

// String returns a text cell
func String(s string) Value {
	return Value{kind: stringValue, str: s}
}

// Time returns a datetime cell. The zero time is stored as null.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: timeValue, at: t}
}

// IsNull reports whether the cell is missing
func (v Value) IsNull() bool {
	return v.kind == nullValue
}

// Float returns the numeric payload
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == numberValue
}

// Text returns the string payload
func (v Value) Text() (string, bool) {
	return v.str, v.kind == stringValue
}

// Timestamp returns the datetime payload
func (v Value) Timestamp() (time.Time, bool) {
	return v.at, v.kind == timeValue
}

// Interface returns the cell as nil, float64, string or time.Time
func (v Value) Interface() interface{} {
	switch v.kind {
	case numberValue:
		return v.num
	case stringValue:
		return v.str
	case timeValue:
		return v.at
	default:
		return nil
	}
}

// String renders the cell for display. Null renders as an empty string.
func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case stringValue:
		return v.str
	case timeValue:
		return v.at.Format(time.RFC3339)
	default:
		return ""
	}
}

// Key returns an equality key. Two cells share a key iff they hold the same
// kind and payload; all nulls share one key.
func (v Value) Key() string {
	switch v.kind {
	case numberValue:
		if v.num == 0 {
			return "n:0" // fold -0
		}
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case stringValue:
		return "s:" + v.str
	case timeValue:
		return "t:" + v.at.UTC().Format(time.RFC3339Nano)
	default:
		return NullKey
	}
}

// NullKey is the equality key shared by every null cell
const NullKey = "\x00null"
