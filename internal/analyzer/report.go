package analyzer

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"datahealth/domain/quality"
	apperrors "datahealth/internal/errors"
)

// FullReport runs every check and assembles the report. The checks share
// only the read-only table, so they run concurrently; a failure in any of
// them fails the whole report.
func (a *Analyzer) FullReport(ctx context.Context) (*quality.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &quality.Report{}
	var g errgroup.Group

	run := func(name string, check func()) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s check panicked: %v\n%s", name, r, debug.Stack())
				}
			}()
			check()
			return nil
		})
	}

	run("summary", func() { report.Summary = a.Summary() })
	run("health score", func() { report.HealthScore = a.HealthScore() })
	run("missing values", func() { report.MissingValues = a.MissingValues() })
	run("duplicates", func() { report.Duplicates = a.Duplicates() })
	run("data types", func() { report.DataTypes = a.DataTypes() })
	run("categorical consistency", func() { report.CategoricalConsistency = a.CategoricalConsistency() })
	run("date formats", func() { report.DateFormats = a.DateFormats() })
	run("class imbalance", func() { report.ClassImbalance = a.ClassImbalance() })
	run("outliers", func() { report.Outliers = a.Outliers() })

	if err := g.Wait(); err != nil {
		return nil, apperrors.AnalysisFailed(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
