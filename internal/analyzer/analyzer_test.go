package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datahealth/adapters/loader"
	"datahealth/domain/quality"
	"datahealth/domain/table"
	apperrors "datahealth/internal/errors"
)

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func classes(name string, counts ...interface{}) table.Column {
	var values []string
	for i := 0; i < len(counts); i += 2 {
		values = append(values, repeat(counts[i].(string), counts[i+1].(int))...)
	}
	return table.Strings(name, values...)
}

func TestHealthScorePerfectTable(t *testing.T) {
	tbl := table.MustNew(
		table.Floats64("amount", 10, 11, 12, 13),
		table.Strings("name", "ann", "bob", "cat", "dan"),
	)

	a := New(tbl)
	assert.Equal(t, 100.0, a.HealthScore())
}

func TestHealthScoreWeightsMissingCells(t *testing.T) {
	tbl := table.MustNew(table.NumericColumn("a", table.F(1), nil, table.F(3), table.F(4)))

	sub := New(tbl).SubScores()
	assert.Equal(t, 50.0, sub.Missing)
	assert.Equal(t, 100.0, sub.Duplicates)
	assert.Equal(t, 100.0, sub.Types)
	assert.Equal(t, 100.0, sub.Balance)
	assert.Equal(t, 100.0, sub.Outliers)
	assert.Equal(t, 85.0, sub.Weighted())
}

func TestHealthScoreUsesRawDuplicates(t *testing.T) {
	// rows 0 and 1 differ only in case, so only the exact copy in row 3 counts
	tbl := table.MustNew(
		table.Strings("a", "X", "x", "Y", "X"),
		table.Floats64("b", 1, 1, 2, 1),
	)

	sub := New(tbl).SubScores()
	assert.InDelta(t, 25.0, sub.Duplicates, 1e-9)
}

func TestHealthScoreStaysInRange(t *testing.T) {
	tables := []*table.Table{
		table.MustNew(
			table.TextColumn("a", nil, nil, nil, nil),
			table.Strings("b", "1", "1", "1", "1"),
		),
		table.MustNew(
			table.Floats64("v", 1, 1, 1, 1, 1, 1, 1, 1, 500, -500),
			classes("c", "x", 9, "y", 1),
		),
		table.MustNew(),
	}

	for _, tbl := range tables {
		score := New(tbl).HealthScore()
		assert.GreaterOrEqual(t, score, 0.0, tbl.String())
		assert.LessOrEqual(t, score, 100.0, tbl.String())
	}
}

func TestDuplicatesNormalizeText(t *testing.T) {
	tbl := table.MustNew(
		table.Floats64("id", 1, 2, 3),
		table.Strings("a", "X", "x ", "Y"),
		table.Floats64("b", 1, 1, 2),
	)

	dups := New(tbl).Duplicates()
	assert.Equal(t, 1, dups.FullRowDuplicates)
	assert.Equal(t, 33.33, dups.Percentage)

	require.Len(t, dups.DuplicateRowSamples, 2)
	assert.Equal(t, "X", dups.DuplicateRowSamples[0]["a"])
	assert.Equal(t, "x ", dups.DuplicateRowSamples[1]["a"])

	require.Len(t, dups.ColumnDuplicates, 1)
	assert.Equal(t, "b", dups.ColumnDuplicates[0].Column)
	assert.Equal(t, 1, dups.ColumnDuplicates[0].Count)
}

func TestDuplicatesMissingTokensMatchNulls(t *testing.T) {
	tbl := table.MustNew(table.TextColumn("note", table.S("NaN"), nil, table.S(" none ")))

	dups := New(tbl).Duplicates()
	assert.Equal(t, 2, dups.FullRowDuplicates)
}

func TestDuplicatesSkipAnyColumnNamedLikeID(t *testing.T) {
	// "video_title" contains "id", so it is ignored like "user_id"
	tbl := table.MustNew(
		table.Strings("video_title", "intro", "outro"),
		table.Floats64("views", 10, 10),
	)

	dups := New(tbl).Duplicates()
	assert.Equal(t, 1, dups.FullRowDuplicates)
}

func TestDuplicatesAllIdentifierColumns(t *testing.T) {
	tbl := table.MustNew(table.Floats64("user_id", 1, 1, 1))

	dups := New(tbl).Duplicates()
	assert.Zero(t, dups.FullRowDuplicates)
	assert.Empty(t, dups.DuplicateRowSamples)
	require.Len(t, dups.ColumnDuplicates, 1)
	assert.Equal(t, 2, dups.ColumnDuplicates[0].Count)
}

func TestMissingValues(t *testing.T) {
	tbl := table.MustNew(
		table.NumericColumn("score",
			table.F(1), nil, table.F(3), nil, table.F(5),
			table.F(6), nil, table.F(8), table.F(9), table.F(10)),
		table.Floats64("full", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	)

	mv := New(tbl).MissingValues()
	assert.Equal(t, 3, mv.TotalMissing)
	assert.Equal(t, 20, mv.TotalCells)
	assert.Equal(t, 15.0, mv.Percentage)
	assert.Equal(t, 1, mv.ColumnsAffected)
	require.Len(t, mv.Details, 1)
	assert.Equal(t, quality.MissingColumn{Column: "score", Count: 3, Percentage: 30.0}, mv.Details[0])
}

func TestDataTypes(t *testing.T) {
	tbl := table.MustNew(
		table.Strings("code", "1", "2", "3"),
		table.TextColumn("joined", table.S("2023-01-01"), table.S("2023-02-01"), nil),
		table.Strings("label", "red", "blue", "red"),
		table.Floats64("amount", 1, 2, 3),
	)

	dt := New(tbl).DataTypes()
	require.Len(t, dt.TypeDistribution, 4)
	assert.Equal(t, quality.ColumnType{Column: "joined", CurrentType: "text", UniqueValues: 2, NullCount: 1}, dt.TypeDistribution[1])

	require.Len(t, dt.TypeIssues, 2)
	assert.Equal(t, quality.TypeIssue{Column: "code", Issue: quality.IssueNumericAsText, SuggestedType: "numeric"}, dt.TypeIssues[0])
	assert.Equal(t, quality.TypeIssue{Column: "joined", Issue: quality.IssueDateAsText, SuggestedType: "datetime"}, dt.TypeIssues[1])
}

func TestDataTypesAllNullTextColumnReadsAsNumeric(t *testing.T) {
	tbl := table.MustNew(
		table.TextColumn("empty", nil, nil),
		table.Floats64("n", 1, 2),
	)

	a := New(tbl)
	dt := a.DataTypes()
	require.Len(t, dt.TypeIssues, 1)
	assert.Equal(t, "empty", dt.TypeIssues[0].Column)
	assert.Equal(t, quality.IssueNumericAsText, dt.TypeIssues[0].Issue)
	assert.Equal(t, 50.0, a.SubScores().Types)
}

func TestCategoricalConsistency(t *testing.T) {
	tbl := table.MustNew(
		table.Strings("city", "NY", "ny ", "LA", "NY"),
		table.Strings("tier", "gold", "silver", "gold", "gold"),
		table.Floats64("n", 1, 2, 3, 4),
	)

	cc := New(tbl).CategoricalConsistency()
	assert.Equal(t, 2, cc.CategoricalColumns)
	require.Len(t, cc.Details, 2)

	city := cc.Details[0]
	assert.Equal(t, 3, city.UniqueValues)
	assert.Equal(t, quality.ValueCounts{{Value: "NY", Count: 2}, {Value: "ny ", Count: 1}, {Value: "LA", Count: 1}}, city.MostCommon)
	assert.True(t, city.HasInconsistency)
	require.NotNil(t, city.InconsistencyType)
	assert.Equal(t, quality.InconsistencyCaseWhitespace, *city.InconsistencyType)

	tier := cc.Details[1]
	assert.False(t, tier.HasInconsistency)
	assert.Nil(t, tier.InconsistencyType)
}

func TestCategoricalConsistencyCapsDetails(t *testing.T) {
	cols := make([]table.Column, 12)
	for i := range cols {
		cols[i] = table.Strings(string(rune('a'+i)), "x", "y")
	}

	cc := New(table.MustNew(cols...)).CategoricalConsistency()
	assert.Equal(t, 12, cc.CategoricalColumns)
	assert.Len(t, cc.Details, 10)
}

func TestDateFormats(t *testing.T) {
	tbl := table.MustNew(
		table.TextColumn("signup_date", table.S("2023-01-01"), table.S("garbage"), nil),
		table.Strings("created_at", "2023-01-01", "2023-02-01", "2023-03-01"),
		table.TextColumn("birth_day", nil, nil, nil),
		table.Strings("name", "a", "b", "c"),
	)

	df := New(tbl).DateFormats()
	require.Equal(t, 2, df.DateColumnsFound)

	invalid := df.Details[0]
	assert.Equal(t, "signup_date", invalid.Column)
	assert.Equal(t, quality.DateStatusInvalid, invalid.Status)
	assert.Equal(t, 1, invalid.ValidDates)
	assert.Equal(t, 1, invalid.InvalidDates)
	assert.Equal(t, []interface{}{"2023-01-01", "garbage"}, invalid.SampleValues)

	valid := df.Details[1]
	assert.Equal(t, "created_at", valid.Column)
	assert.Equal(t, quality.DateStatusValid, valid.Status)
	assert.Equal(t, 3, valid.ValidDates)
	assert.Len(t, valid.SampleValues, 3)
}

func TestClassImbalance(t *testing.T) {
	tbl := table.MustNew(
		classes("medium", "A", 18, "B", 2),
		classes("high", "A", 19, "B", 1),
		classes("even", "A", 10, "B", 5, "C", 5),
	)

	ci := New(tbl).ClassImbalance()
	require.Equal(t, 2, ci.ColumnsWithImbalance)

	high := ci.Details[0]
	assert.Equal(t, "high", high.Column)
	assert.Equal(t, 19.0, high.ImbalanceRatio)
	assert.Equal(t, quality.SeverityHigh, high.Severity)
	assert.Equal(t, "A", high.MostCommonClass)
	assert.Equal(t, 1, high.LeastCommonCount)

	medium := ci.Details[1]
	assert.Equal(t, "medium", medium.Column)
	assert.Equal(t, 9.0, medium.ImbalanceRatio)
	assert.Equal(t, quality.SeverityMedium, medium.Severity)
}

func TestOutliers(t *testing.T) {
	tbl := table.MustNew(
		table.Floats64("v", 1, 2, 3, 4, 5, 100),
		table.Floats64("flat", 1, 2, 3, 4, 5, 6),
	)

	out := New(tbl).Outliers()
	require.Equal(t, 1, out.ColumnsWithOutliers)

	v := out.Details[0]
	assert.Equal(t, 1, v.OutlierCount)
	assert.Equal(t, 16.67, v.Percentage)
	require.NotNil(t, v.LowerBound)
	assert.Equal(t, -1.5, *v.LowerBound)
	assert.Equal(t, 8.5, *v.UpperBound)
	assert.Equal(t, 1.0, *v.MinValue)
	assert.Equal(t, 100.0, *v.MaxValue)
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 100}
	assert.InDelta(t, 2.25, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 4.75, quantile(sorted, 0.75), 1e-9)
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.5))
}

func TestSummary(t *testing.T) {
	tbl := table.MustNew(
		table.NumericColumn("x", table.F(1), table.F(2), table.F(3), table.F(4), nil),
		table.NumericColumn("single", table.F(5), nil, nil, nil, nil),
		table.Strings("label", "a", "b", "c", "d", "e"),
	)

	s := New(tbl).Summary()
	assert.Equal(t, 5, s.TotalRows)
	assert.Equal(t, 3, s.TotalColumns)
	assert.Equal(t, 2, s.NumericColumns)
	assert.Equal(t, 1, s.CategoricalColumns)

	x := s.NumericSummary["x"]
	assert.Equal(t, 4, x.Count)
	require.NotNil(t, x.Std)
	assert.InDelta(t, 2.5, *x.Mean, 1e-9)
	assert.InDelta(t, 1.2910, *x.Std, 1e-4)
	assert.InDelta(t, 1.75, *x.Q25, 1e-9)
	assert.InDelta(t, 2.5, *x.Q50, 1e-9)
	assert.InDelta(t, 3.25, *x.Q75, 1e-9)

	single := s.NumericSummary["single"]
	assert.Equal(t, 1, single.Count)
	assert.Nil(t, single.Std)
	assert.Equal(t, 5.0, *single.Max)
}

func TestFullReportIsIdempotent(t *testing.T) {
	tbl := table.MustNew(
		table.Floats64("id", 1, 2, 3, 4, 5, 6),
		table.Floats64("v", 1, 2, 3, 4, 5, 100),
		table.Strings("city", "NY", "ny", "LA", "NY", "NY", "NY"),
		table.Strings("signup_date", "2023-01-01", "bad", "2023-01-03", "2023-01-04", "2023-01-05", "2023-01-06"),
	)
	a := New(tbl)

	first, err := a.FullReport(context.Background())
	require.NoError(t, err)
	second, err := a.FullReport(context.Background())
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))

	assert.Equal(t, a.HealthScore(), first.HealthScore)
	assert.Equal(t, 1, first.Outliers.ColumnsWithOutliers)
}

func TestFullReportHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(table.MustNew(table.Floats64("a", 1))).FullReport(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, apperrors.HasCode(err, apperrors.CodeAnalysisFailed))
}

func TestEmptyTables(t *testing.T) {
	for _, tbl := range []*table.Table{
		table.MustNew(),
		table.MustNew(table.Floats64("x"), table.Strings("y")),
	} {
		a := New(tbl)
		assert.Equal(t, 100.0, a.HealthScore())

		report, err := a.FullReport(context.Background())
		require.NoError(t, err)
		assert.Zero(t, report.MissingValues.Percentage)
		assert.Zero(t, report.Duplicates.FullRowDuplicates)
		assert.Zero(t, report.Outliers.ColumnsWithOutliers)
		assert.Zero(t, report.ClassImbalance.ColumnsWithImbalance)
		assert.Empty(t, report.DataTypes.TypeIssues)
	}
}

func TestFullReportEncodesInfiniteCells(t *testing.T) {
	csv := "amount,label\n1,a\n2,b\n3,c\n4,d\n5,e\n6,f\n7,g\ninf,z\ninf,z\n"
	tbl, err := loader.Load("amounts.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, table.KindNumeric, tbl.Columns()[0].Kind)

	report, err := New(tbl).FullReport(context.Background())
	require.NoError(t, err)

	_, err = json.Marshal(report)
	require.NoError(t, err)

	amount := report.Summary.NumericSummary["amount"]
	assert.Nil(t, amount.Mean)
	assert.Nil(t, amount.Max)
	require.NotNil(t, amount.Min)
	assert.Equal(t, 1.0, *amount.Min)

	require.Len(t, report.Outliers.Details, 1)
	out := report.Outliers.Details[0]
	assert.Equal(t, 2, out.OutlierCount)
	assert.Nil(t, out.MaxValue)
	require.NotNil(t, out.UpperBound)
	assert.Equal(t, 13.0, *out.UpperBound)

	assert.Equal(t, 1, report.Duplicates.FullRowDuplicates)
	require.Len(t, report.Duplicates.DuplicateRowSamples, 2)
	assert.Nil(t, report.Duplicates.DuplicateRowSamples[0]["amount"])
	assert.Equal(t, "z", report.Duplicates.DuplicateRowSamples[0]["label"])
}

func TestSummaryOverflowingMeanIsNull(t *testing.T) {
	tbl := table.MustNew(table.Floats64("big", 1e308, 1e308))

	s := New(tbl).Summary().NumericSummary["big"]
	assert.Nil(t, s.Mean)
	require.NotNil(t, s.Max)
	assert.Equal(t, 1e308, *s.Max)

	_, err := json.Marshal(s)
	assert.NoError(t, err)
}

func TestSortedCopyLeavesInputAlone(t *testing.T) {
	in := []float64{3, -1, 2, 100, 0}
	out := sortedCopy(in)

	assert.Equal(t, []float64{-1, 0, 2, 3, 100}, out)
	assert.Equal(t, []float64{3, -1, 2, 100, 0}, in)
}
