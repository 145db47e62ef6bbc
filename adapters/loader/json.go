package loader

import (
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"datahealth/domain/table"
	"datahealth/internal/errors"
)

// jsonColumn collects the cells of one column in row order
type jsonColumn struct {
	name  string
	cells map[int]gjson.Result
}

// readJSON accepts an array of records or a column-oriented object whose
// values are arrays or index-keyed objects
func readJSON(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read JSON file")
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.InvalidInput("file is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		return fromRecords(root)
	case root.IsObject():
		return fromColumns(root)
	default:
		return nil, errors.InvalidInput("JSON must be an array of records or an object of columns")
	}
}

func fromRecords(root gjson.Result) (*table.Table, error) {
	var (
		columns []*jsonColumn
		byName  = make(map[string]*jsonColumn)
		rows    int
		bad     bool
	)

	root.ForEach(func(_, record gjson.Result) bool {
		if !record.IsObject() {
			bad = true
			return false
		}
		record.ForEach(func(key, value gjson.Result) bool {
			col, ok := byName[key.String()]
			if !ok {
				col = &jsonColumn{name: key.String(), cells: make(map[int]gjson.Result)}
				byName[col.name] = col
				columns = append(columns, col)
			}
			col.cells[rows] = value
			return true
		})
		rows++
		return true
	})
	if bad {
		return nil, errors.InvalidInput("every JSON record must be an object")
	}

	return buildJSONTable(columns, rows)
}

func fromColumns(root gjson.Result) (*table.Table, error) {
	var (
		columns []*jsonColumn
		index   = make(map[string]int)
		bad     bool
	)

	rowFor := func(key string) int {
		if i, ok := index[key]; ok {
			return i
		}
		index[key] = len(index)
		return index[key]
	}

	root.ForEach(func(name, values gjson.Result) bool {
		col := &jsonColumn{name: name.String(), cells: make(map[int]gjson.Result)}
		switch {
		case values.IsArray():
			for i, v := range values.Array() {
				col.cells[rowFor(strconv.Itoa(i))] = v
			}
		case values.IsObject():
			values.ForEach(func(key, v gjson.Result) bool {
				col.cells[rowFor(key.String())] = v
				return true
			})
		default:
			bad = true
			return false
		}
		columns = append(columns, col)
		return true
	})
	if bad {
		return nil, errors.InvalidInput("every JSON column must be an array or an object")
	}

	return buildJSONTable(columns, len(index))
}

func buildJSONTable(columns []*jsonColumn, rows int) (*table.Table, error) {
	out := make([]table.Column, 0, len(columns))
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.name
	}
	names = headerNames(names)

	for i, col := range columns {
		out = append(out, jsonToColumn(names[i], col, rows))
	}
	return table.New(out...)
}

// jsonToColumn is numeric when every present value is a JSON number.
// Otherwise numbers keep their literal text so the column reads like a
// mixed column would.
func jsonToColumn(name string, col *jsonColumn, rows int) table.Column {
	numeric := true
	for _, v := range col.cells {
		if v.Type != gjson.Null && v.Type != gjson.Number {
			numeric = false
			break
		}
	}

	values := make([]table.Value, rows)
	kind := table.KindText
	if numeric {
		kind = table.KindNumeric
	}

	for i := 0; i < rows; i++ {
		v, ok := col.cells[i]
		if !ok {
			continue
		}
		switch v.Type {
		case gjson.Null:
		case gjson.Number:
			if numeric {
				values[i] = table.Number(v.Num)
			} else {
				values[i] = table.String(v.Raw)
			}
		case gjson.True:
			values[i] = table.String("True")
		case gjson.False:
			values[i] = table.String("False")
		case gjson.String:
			values[i] = table.String(v.Str)
		default:
			values[i] = table.String(v.Raw)
		}
	}

	return table.Column{Name: name, Kind: kind, Values: values}
}
