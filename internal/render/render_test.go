package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"datahealth/domain/quality"
)

func float(f float64) *float64 {
	return &f
}

func sampleReport() *quality.Report {
	return &quality.Report{
		HealthScore: 72.5,
		Summary:     quality.Summary{TotalRows: 12345, TotalColumns: 4, NumericColumns: 2, CategoricalColumns: 2},
		MissingValues: quality.MissingValues{
			TotalMissing: 3, TotalCells: 40, Percentage: 7.5, ColumnsAffected: 1,
			Details: []quality.MissingColumn{{Column: "age", Count: 3, Percentage: 30}},
		},
		Duplicates: quality.Duplicates{FullRowDuplicates: 1, Percentage: 33.33},
		ClassImbalance: quality.ClassImbalance{
			ColumnsWithImbalance: 1,
			Details: []quality.ImbalancedColumn{{
				Column: "plan", ImbalanceRatio: 9, Severity: quality.SeverityMedium,
				MostCommonClass: "free", LeastCommonClass: "pro",
			}},
		},
		DataTypes: quality.DataTypes{TypeIssues: []quality.TypeIssue{{
			Column: "<script>alert(1)</script>", Issue: quality.IssueNumericAsText, SuggestedType: quality.SuggestNumeric,
		}}},
		Outliers: quality.Outliers{
			ColumnsWithOutliers: 1,
			Details:             []quality.OutlierColumn{{Column: "v", OutlierCount: 1, Percentage: 16.67, LowerBound: float(-1.5), UpperBound: float(8.5)}},
		},
	}
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sampleReport(), "/uploads/abc_sales.csv", time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC))

	assert.True(t, strings.HasPrefix(md, "# Data Quality & Governance Report"))
	assert.Contains(t, md, "Dataset: abc\\_sales.csv")
	assert.Contains(t, md, "Generated: 2024-05-01 13:04:05")
	assert.Contains(t, md, "| Total Rows | 12,345 |")
	assert.Contains(t, md, "| age | 3 | 30% |")
	assert.Contains(t, md, "Full Row Duplicates: 1 (33.33%)")
	assert.Contains(t, md, "| plan | 9:1 | medium | free | pro |")
	assert.Contains(t, md, "| v | 1 | 16.67% | [-1.5, 8.5] |")
	assert.Contains(t, md, "No date columns found.")
	assert.Contains(t, md, pageBreak)
}

func TestGaugeColorAndLabel(t *testing.T) {
	g := gauge(72.5)
	assert.Contains(t, g, `fill="orange"`)
	assert.Contains(t, g, "72.5%  (Fair)")
	assert.Contains(t, g, `width="290.0"`)

	assert.Contains(t, gauge(150), `width="400.0"`)
	assert.Contains(t, gauge(95), `fill="green"`)
}

func TestHTMLIsCompleteAndEscaped(t *testing.T) {
	out := string(HTML(sampleReport(), "sales.csv", time.Now()))

	assert.Contains(t, out, "<title>Data Quality &amp; Governance Report</title>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<svg")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "Quality of sales.html", DownloadFilename("sales.csv"))
	assert.Equal(t, "Quality of q1.report.html", DownloadFilename("/data/q1.report.xlsx"))
	assert.Equal(t, "Quality of notes.html", DownloadFilename("notes"))
}

func TestTextEscaping(t *testing.T) {
	assert.Equal(t, "a&#124;b", text("a|b"))
	assert.Equal(t, "&nbsp;", text("  "))
	assert.Equal(t, "user\\_id", text("user_id"))
}
