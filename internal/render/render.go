// Package render turns a quality report into a printable document.
package render

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datahealth/domain/quality"
)

// Title heads every report document
const Title = "Data Quality & Governance Report"

const pageBreak = `<div style="page-break-after: always"></div>`

const stylesheet = `<style>
body { font-family: Helvetica, Arial, sans-serif; max-width: 860px; margin: 2em auto; color: #1f2937; }
h1 { color: #0ea5e9; text-align: center; }
h2 { color: #0369a1; margin-top: 1.6em; }
table { border-collapse: collapse; width: 100%; margin: 0.8em 0; }
th { background: #0ea5e9; color: #fff; }
th, td { border: 1px solid #111; padding: 4px 8px; text-align: left; }
@media print { body { margin: 0; } }
</style>
`

// DownloadFilename names the rendered document after the dataset
func DownloadFilename(datasetName string) string {
	base := filepath.Base(datasetName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return "Quality of " + stem + ".html"
}

// HTML renders the report as a complete HTML page
func HTML(report *quality.Report, datasetName string, generatedAt time.Time) []byte {
	md := Markdown(report, datasetName, generatedAt)

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: Title,
		Flags: html.CommonFlags | html.CompletePage,
		Head:  []byte(stylesheet),
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// Markdown renders the report body as markdown with inline HTML for the gauge
func Markdown(report *quality.Report, datasetName string, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "Dataset: %s\n\n", text(filepath.Base(datasetName)))
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Overall Data Health Score\n\n")
	b.WriteString(gauge(report.HealthScore))
	b.WriteString("\n\n")

	writeSummary(&b, report.Summary)
	writeMissing(&b, report.MissingValues)
	writeDuplicates(&b, report.Duplicates)

	b.WriteString(pageBreak + "\n\n")

	writeImbalance(&b, report.ClassImbalance)
	writeTypeIssues(&b, report.DataTypes)
	writeCategorical(&b, report.CategoricalConsistency)
	writeOutliers(&b, report.Outliers)
	writeDates(&b, report.DateFormats)

	return b.String()
}

// gauge draws the score as a horizontal bar on a 0-100 axis
func gauge(score float64) string {
	clamped := score
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	width := clamped * 4
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="600" height="60" role="img" aria-label="health score">`+
		`<rect x="0" y="15" width="400" height="24" fill="#eeeeee"/>`+
		`<rect x="0" y="15" width="%.1f" height="24" fill="%s"/>`+
		`<text x="410" y="32" font-size="14" font-weight="bold">%.1f%%  (%s)</text>`+
		`</svg>`,
		width, quality.GaugeColor(score), score, quality.ScoreLabel(score))
}

func writeSummary(b *strings.Builder, s quality.Summary) {
	b.WriteString("## Dataset Summary\n\n")
	writeTable(b, []string{"Metric", "Value"}, [][]string{
		{"Total Rows", humanize.Comma(int64(s.TotalRows))},
		{"Total Columns", humanize.Comma(int64(s.TotalColumns))},
		{"Numeric Columns", humanize.Comma(int64(s.NumericColumns))},
		{"Categorical Columns", humanize.Comma(int64(s.CategoricalColumns))},
	})
}

func writeMissing(b *strings.Builder, m quality.MissingValues) {
	b.WriteString("## Missing Values Analysis\n\n")
	fmt.Fprintf(b, "Total Missing: %s (%s%%)\n\n", humanize.Comma(int64(m.TotalMissing)), num(m.Percentage))
	fmt.Fprintf(b, "Columns Affected: %d\n\n", m.ColumnsAffected)
	if len(m.Details) == 0 {
		return
	}
	rows := make([][]string, 0, len(m.Details))
	for _, d := range m.Details {
		rows = append(rows, []string{text(d.Column), humanize.Comma(int64(d.Count)), num(d.Percentage) + "%"})
	}
	writeTable(b, []string{"Column", "Missing Count", "Percentage"}, rows)
}

func writeDuplicates(b *strings.Builder, d quality.Duplicates) {
	b.WriteString("## Duplicate Rows Analysis\n\n")
	fmt.Fprintf(b, "Full Row Duplicates: %s (%s%%)\n\n", humanize.Comma(int64(d.FullRowDuplicates)), num(d.Percentage))
}

func writeImbalance(b *strings.Builder, c quality.ClassImbalance) {
	b.WriteString("## Class Imbalance Detection\n\n")
	fmt.Fprintf(b, "Columns Affected: %d\n\n", c.ColumnsWithImbalance)
	if len(c.Details) == 0 {
		return
	}
	rows := make([][]string, 0, len(c.Details))
	for _, d := range c.Details {
		rows = append(rows, []string{
			text(d.Column),
			num(d.ImbalanceRatio) + ":1",
			d.Severity,
			text(d.MostCommonClass),
			text(d.LeastCommonClass),
		})
	}
	writeTable(b, []string{"Column", "Imbalance Ratio", "Severity", "Most Common", "Least Common"}, rows)
}

func writeTypeIssues(b *strings.Builder, d quality.DataTypes) {
	b.WriteString("## Data Type Issues\n\n")
	if len(d.TypeIssues) == 0 {
		b.WriteString("No type issues found.\n\n")
		return
	}
	rows := make([][]string, 0, len(d.TypeIssues))
	for _, issue := range d.TypeIssues {
		rows = append(rows, []string{text(issue.Column), issue.Issue, issue.SuggestedType})
	}
	writeTable(b, []string{"Column", "Issue", "Suggested Type"}, rows)
}

func writeCategorical(b *strings.Builder, c quality.CategoricalConsistency) {
	b.WriteString("## Categorical Consistency\n\n")
	fmt.Fprintf(b, "Categorical Columns: %d\n\n", c.CategoricalColumns)
	if len(c.Details) == 0 {
		return
	}
	rows := make([][]string, 0, len(c.Details))
	for _, d := range c.Details {
		issue := "none"
		if d.InconsistencyType != nil {
			issue = *d.InconsistencyType
		}
		top := make([]string, 0, len(d.MostCommon))
		for _, vc := range d.MostCommon {
			top = append(top, fmt.Sprintf("%s (%d)", text(vc.Value), vc.Count))
		}
		rows = append(rows, []string{text(d.Column), strconv.Itoa(d.UniqueValues), strings.Join(top, ", "), issue})
	}
	writeTable(b, []string{"Column", "Unique Values", "Most Common", "Inconsistency"}, rows)
}

func writeOutliers(b *strings.Builder, o quality.Outliers) {
	b.WriteString("## Outliers Detection\n\n")
	fmt.Fprintf(b, "%d Columns with Outliers\n\n", o.ColumnsWithOutliers)
	if len(o.Details) == 0 {
		return
	}
	rows := make([][]string, 0, len(o.Details))
	for _, d := range o.Details {
		rows = append(rows, []string{
			text(d.Column),
			humanize.Comma(int64(d.OutlierCount)),
			num(d.Percentage) + "%",
			fmt.Sprintf("[%s, %s]", optNum(d.LowerBound), optNum(d.UpperBound)),
		})
	}
	writeTable(b, []string{"Column", "Outlier Count", "Percentage", "Range"}, rows)
}

func writeDates(b *strings.Builder, d quality.DateFormats) {
	b.WriteString("## Date Format Analysis\n\n")
	if len(d.Details) == 0 {
		b.WriteString("No date columns found.\n\n")
		return
	}
	rows := make([][]string, 0, len(d.Details))
	for _, c := range d.Details {
		rows = append(rows, []string{text(c.Column), c.Status, strconv.Itoa(c.ValidDates), strconv.Itoa(c.InvalidDates)})
	}
	writeTable(b, []string{"Column", "Status", "Valid Dates", "Invalid Dates"}, rows)
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
}

// num formats a float without trailing zeros
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// optNum formats an optional number, "n/a" when absent
func optNum(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return num(*f)
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"|", "&#124;",
	"\\", "\\\\",
	"`", "\\`",
	"*", "\\*",
	"_", "\\_",
	"[", "\\[",
	"]", "\\]",
	"#", "\\#",
	"\n", " ",
	"\r", " ",
)

// text escapes user data (column names, labels) for markdown table cells
func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return "&nbsp;"
	}
	return textEscaper.Replace(s)
}
