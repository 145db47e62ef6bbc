package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"

	"datahealth/adapters/loader"
	"datahealth/internal/analyzer"
)

type scanResult struct {
	Path    string
	Rows    int
	Columns int
	Score   float64
	Err     error
}

// discoverFiles lists loadable files under dir, optionally limited to one extension
func discoverFiles(dir string, recursive bool, ext string) ([]string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !loader.Supported(path) {
			return nil
		}
		if ext != "" && strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") != ext {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func scanFiles(ctx context.Context, files []string, progress io.Writer) []scanResult {
	ctx = contextOrBackground(ctx)
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] Scoring files..."),
		progressbar.OptionSetWidth(20),
	)

	results := make([]scanResult, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		results = append(results, scanFile(path))
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(progress)
	return results
}

func scanFile(path string) scanResult {
	t, err := loadFile(path)
	if err != nil {
		return scanResult{Path: path, Err: err}
	}
	return scanResult{
		Path:    path,
		Rows:    t.NumRows(),
		Columns: t.NumCols(),
		Score:   analyzer.New(t).HealthScore(),
	}
}
