package quality

import (
	"bytes"
	"encoding/json"
	"fmt"

	"datahealth/domain/table"
)

// Report aggregates the summary, the health score and every check result.
// It is the unit persisted by the report repository and consumed by renderers.
type Report struct {
	Summary                Summary                `json:"summary"`
	HealthScore            float64                `json:"health_score"`
	MissingValues          MissingValues          `json:"missing_values"`
	Duplicates             Duplicates             `json:"duplicates"`
	DataTypes              DataTypes              `json:"data_types"`
	CategoricalConsistency CategoricalConsistency `json:"categorical_consistency"`
	DateFormats            DateFormats            `json:"date_formats"`
	ClassImbalance         ClassImbalance         `json:"class_imbalance"`
	Outliers               Outliers               `json:"outliers"`
}

// Summary holds dataset shape and describe() statistics per numeric column
type Summary struct {
	TotalRows          int                       `json:"total_rows"`
	TotalColumns       int                       `json:"total_columns"`
	NumericColumns     int                       `json:"numeric_columns"`
	CategoricalColumns int                       `json:"categorical_columns"`
	NumericSummary     map[string]NumericSummary `json:"numeric_summary"`
}

// NumericSummary mirrors describe(); statistics that are undefined for the
// column (no values, or std with fewer than two) are nil.
type NumericSummary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	Q25   *float64 `json:"25%"`
	Q50   *float64 `json:"50%"`
	Q75   *float64 `json:"75%"`
	Max   *float64 `json:"max"`
}

type MissingValues struct {
	TotalMissing    int             `json:"total_missing"`
	TotalCells      int             `json:"total_cells"`
	Percentage      float64         `json:"percentage"`
	ColumnsAffected int             `json:"columns_affected"`
	Details         []MissingColumn `json:"details"`
}

type MissingColumn struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Duplicates struct {
	FullRowDuplicates   int               `json:"full_row_duplicates"`
	Percentage          float64           `json:"percentage"`
	DuplicateRowSamples []table.Record    `json:"duplicate_row_samples"`
	ColumnDuplicates    []ColumnDuplicate `json:"column_duplicates"`
}

type ColumnDuplicate struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DataTypes struct {
	TypeDistribution []ColumnType `json:"type_distribution"`
	TypeIssues       []TypeIssue  `json:"type_issues"`
}

type ColumnType struct {
	Column       string `json:"column"`
	CurrentType  string `json:"current_type"`
	UniqueValues int    `json:"unique_values"`
	NullCount    int    `json:"null_count"`
}

type TypeIssue struct {
	Column        string `json:"column"`
	Issue         string `json:"issue"`
	SuggestedType string `json:"suggested_type"`
}

type CategoricalConsistency struct {
	CategoricalColumns int                 `json:"categorical_columns"`
	Details            []CategoricalColumn `json:"details"`
}

type CategoricalColumn struct {
	Column            string      `json:"column"`
	UniqueValues      int         `json:"unique_values"`
	MostCommon        ValueCounts `json:"most_common"`
	HasInconsistency  bool        `json:"has_inconsistency"`
	InconsistencyType *string     `json:"inconsistency_type"`
}

type DateFormats struct {
	DateColumnsFound int          `json:"date_columns_found"`
	Details          []DateColumn `json:"details"`
}

type DateColumn struct {
	Column       string        `json:"column"`
	Status       string        `json:"status"`
	ValidDates   int           `json:"valid_dates"`
	InvalidDates int           `json:"invalid_dates"`
	SampleValues []interface{} `json:"sample_values"`
}

type ClassImbalance struct {
	ColumnsWithImbalance int                `json:"columns_with_imbalance"`
	Details              []ImbalancedColumn `json:"details"`
}

type ImbalancedColumn struct {
	Column           string  `json:"column"`
	UniqueClasses    int     `json:"unique_classes"`
	ImbalanceRatio   float64 `json:"imbalance_ratio"`
	MostCommonClass  string  `json:"most_common_class"`
	MostCommonCount  int     `json:"most_common_count"`
	LeastCommonClass string  `json:"least_common_class"`
	LeastCommonCount int     `json:"least_common_count"`
	Severity         string  `json:"severity"`
}

type Outliers struct {
	ColumnsWithOutliers int             `json:"columns_with_outliers"`
	Details             []OutlierColumn `json:"details"`
}

type OutlierColumn struct {
	Column       string  `json:"column"`
	OutlierCount int     `json:"outlier_count"`
	Percentage   float64 `json:"percentage"`
	LowerBound   *float64 `json:"lower_bound"`
	UpperBound   *float64 `json:"upper_bound"`
	MinValue     *float64 `json:"min_value"`
	MaxValue     *float64 `json:"max_value"`
}

// Issue, status and severity labels emitted by the checks
const (
	IssueNumericAsText = "numeric values stored as text"
	IssueDateAsText    = "date values stored as text"
	SuggestNumeric     = "numeric"
	SuggestDatetime    = "datetime"

	InconsistencyCaseWhitespace = "case or whitespace variations"

	DateStatusInvalid = "invalid date formats detected"
	DateStatusValid   = "valid date column"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// ValueCount is one label and its frequency
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts is ordered by frequency and encodes as a JSON object whose key
// order follows the slice.
type ValueCounts []ValueCount

func (vc ValueCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range vc {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", item.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (vc *ValueCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*vc = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("value counts: expected object, got %v", tok)
	}

	out := ValueCounts{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("value counts: non-string key %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("value counts: count for %q: %w", key, err)
		}
		out = append(out, ValueCount{Value: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*vc = out
	return nil
}
