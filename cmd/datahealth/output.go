package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"datahealth/domain/quality"
	"datahealth/internal/render"
)

func writeReport(w io.Writer, format string, report *quality.Report, datasetName string, now time.Time) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml", "yml":
		data, err := reportYAML(report)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "html":
		_, err := w.Write(render.HTML(report, datasetName, now))
		return err
	case "table", "":
		writeReportTable(w, report)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json, yaml or html)", format)
	}
}

// reportYAML goes through JSON so the YAML keys match the JSON document
// and value counts keep their frequency order
func reportYAML(report *quality.Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)
	return yaml.Marshal(&doc)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func writeReportTable(w io.Writer, report *quality.Report) {
	fmt.Fprintf(w, "Health score: %.2f (%s)\n", report.HealthScore, quality.ScoreLabel(report.HealthScore))
	fmt.Fprintf(w, "Rows: %d  Columns: %d  Numeric: %d  Categorical: %d\n\n",
		report.Summary.TotalRows, report.Summary.TotalColumns,
		report.Summary.NumericColumns, report.Summary.CategoricalColumns)

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Check", "Finding"})
	tw.SetAutoWrapText(false)
	tw.Append([]string{"Missing values", fmt.Sprintf("%d cells (%.2f%%) in %d columns",
		report.MissingValues.TotalMissing, report.MissingValues.Percentage, report.MissingValues.ColumnsAffected)})
	tw.Append([]string{"Duplicate rows", fmt.Sprintf("%d (%.2f%%)",
		report.Duplicates.FullRowDuplicates, report.Duplicates.Percentage)})
	tw.Append([]string{"Type issues", strconv.Itoa(len(report.DataTypes.TypeIssues))})
	tw.Append([]string{"Inconsistent categories", strconv.Itoa(inconsistentColumns(report.CategoricalConsistency))})
	tw.Append([]string{"Date columns", strconv.Itoa(report.DateFormats.DateColumnsFound)})
	tw.Append([]string{"Imbalanced columns", strconv.Itoa(report.ClassImbalance.ColumnsWithImbalance)})
	tw.Append([]string{"Columns with outliers", strconv.Itoa(report.Outliers.ColumnsWithOutliers)})
	tw.Render()
}

func inconsistentColumns(c quality.CategoricalConsistency) int {
	n := 0
	for _, d := range c.Details {
		if d.HasInconsistency {
			n++
		}
	}
	return n
}

func writeScanTable(w io.Writer, results []scanResult) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"File", "Rows", "Columns", "Score", "Label"})
	tw.SetAutoWrapText(false)
	for _, r := range results {
		if r.Err != nil {
			tw.Append([]string{r.Path, "-", "-", "-", "error: " + r.Err.Error()})
			continue
		}
		tw.Append([]string{
			r.Path,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Columns),
			fmt.Sprintf("%.2f", r.Score),
			quality.ScoreLabel(r.Score),
		})
	}
	tw.Render()
}
