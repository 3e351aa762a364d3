package main

import (
	"github.com/spf13/cobra"

	"github.com/Brown-1023/document-parsing-backend/internal/store"
)

var (
	runsDB  string
	runsOut string
	runsGet string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List or fetch persisted assessment runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "", "SQLite path (required)")
	runsCmd.Flags().StringVar(&runsOut, "out", "-", "output path, or - for stdout")
	runsCmd.Flags().StringVar(&runsGet, "get", "", "fetch one run by id instead of listing")
	runsCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := store.Open(runsDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if runsGet != "" {
		res, err := db.LoadRun(runsGet)
		if err != nil {
			return err
		}
		return writeJSON(runsOut, res)
	}

	summaries, err := db.ListRuns()
	if err != nil {
		return err
	}
	return writeJSON(runsOut, summaries)
}
