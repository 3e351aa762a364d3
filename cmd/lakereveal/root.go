package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Brown-1023/document-parsing-backend/internal/document"
	"github.com/Brown-1023/document-parsing-backend/internal/rules"
)

var rulesPath string

var rootCmd = &cobra.Command{
	Use:   "lakereveal",
	Short: "Assess lake monitoring documents for compliance and multi-year trends",
	Long: `lakereveal scores text-extracted lake monitoring documents against a
configurable compliance rubric and, for lakes with three or more years of
reports, fits per-parameter trends and classifies the lake's trajectory.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "path to a YAML ruleset (default: compiled-in rubric)")
}

func loadRules() (*rules.Ruleset, error) {
	if rulesPath == "" {
		return rules.Default(), nil
	}
	rs, err := rules.Load(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return rs, nil
}

// loadDocuments reads document records from a JSON file (an array or a
// single record) or from every .json file in a directory.
func loadDocuments(path string) ([]document.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return readDocumentFile(path)
	}

	names, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var docs []document.Record
	for _, name := range names {
		batch, err := readDocumentFile(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs = append(docs, batch...)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", path)
	}
	return docs, nil
}

func readDocumentFile(path string) ([]document.Record, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(blob))
	if strings.HasPrefix(trimmed, "[") {
		var docs []document.Record
		if err := json.Unmarshal(blob, &docs); err != nil {
			return nil, fmt.Errorf("parse documents: %w", err)
		}
		return docs, nil
	}
	var doc document.Record
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return []document.Record{doc}, nil
}

// writeJSON pretty-prints v to path, or stdout when path is "-" or empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
