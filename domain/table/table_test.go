package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(Floats64("a", 1, 2, 3), Strings("b", "x", "y"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(Floats64("a", 1), Floats64("a", 2))
	require.Error(t, err)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := New(Column{Name: "a", Kind: "blob", Values: []Value{Null()}})
	require.Error(t, err)
}

func TestNewCopiesCells(t *testing.T) {
	cells := []Value{Number(1), Number(2)}
	tbl, err := New(Column{Name: "a", Kind: KindNumeric, Values: cells})
	require.NoError(t, err)

	cells[0] = Number(99)

	f, ok := tbl.Column(0).Values[0].Float()
	require.True(t, ok)
	assert.Equal(t, 1.0, f)
}

func TestEmptyTable(t *testing.T) {
	tbl, err := New()
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumCols())
}

func TestRowRecord(t *testing.T) {
	tbl := MustNew(
		NumericColumn("id", F(1), F(2)),
		TextColumn("name", S("ann"), nil),
	)

	rec := tbl.Row(1)
	assert.Equal(t, 2.0, rec["id"])
	assert.Nil(t, rec["name"])
	assert.Len(t, rec, 2)
}

func TestValueKeys(t *testing.T) {
	assert.Equal(t, Number(1).Key(), Number(1.0).Key())
	assert.Equal(t, Number(0).Key(), Number(math.Copysign(0, -1)).Key())
	assert.NotEqual(t, Number(1).Key(), String("1").Key())
	assert.Equal(t, Null().Key(), Number(math.NaN()).Key())
	assert.True(t, Time(time.Time{}).IsNull())

	ts := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, Time(ts).Key(), Time(ts.In(time.FixedZone("x", 3600))).Key())
}

func TestColumnHelpers(t *testing.T) {
	col := TextColumn("c", S("a"), nil, S("a"), S("b"), nil)

	assert.Equal(t, 2, col.NullCount())
	assert.Equal(t, 2, col.Distinct())
	assert.Len(t, col.NonNull(), 3)
	assert.True(t, col.IsTextual())

	num := NumericColumn("n", F(1.5), nil, F(3))
	assert.Equal(t, []float64{1.5, 3}, num.Floats())
	assert.False(t, num.IsTextual())
}
