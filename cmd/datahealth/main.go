package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"datahealth/adapters/loader"
	"datahealth/domain/quality"
	"datahealth/domain/table"
	"datahealth/internal/analyzer"
	"datahealth/internal/config"
	"datahealth/internal/logger"
	"datahealth/internal/migration"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadForCLI()
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "datahealth",
		Short:        "Score and report on the quality of tabular data files",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newReportCmd(),
		newScanCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [file]",
		Short: "Print the health score of a CSV, Excel or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadFile(args[0])
			if err != nil {
				return err
			}
			score := analyzer.New(t).HealthScore()
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f (%s)\n", score, quality.ScoreLabel(score))
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Run every quality check and write the full report",
		Long: `Run every quality check on a file and write the report.

Example: datahealth report sales.csv --format html --out "Quality of sales.html"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadFile(args[0])
			if err != nil {
				return err
			}
			report, err := analyzer.New(t).FullReport(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeReport(out, strings.ToLower(format), report, args[0], time.Now())
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml or html")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: stdout)")

	return cmd
}

func newScanCmd() *cobra.Command {
	var dir string
	var recursive bool
	var format string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score every data file in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := discoverFiles(dir, recursive, format)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No data files found in %s\n", dir)
				return nil
			}

			results := scanFiles(cmd.Context(), files, cmd.ErrOrStderr())
			writeScanTable(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to scan")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Descend into subdirectories")
	cmd.Flags().StringVar(&format, "format", "", "Only scan files with this extension (csv, xlsx, xls, json)")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("a database URL is required (--database-url or DATABASE_URL)")
			}

			db, err := sqlx.Connect("postgres", databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %s is up to date\n", runner.Version())
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")

	return cmd
}

func loadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return loader.Load(path, f)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
