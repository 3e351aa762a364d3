package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Brown-1023/document-parsing-backend/internal/assessment"
	"github.com/Brown-1023/document-parsing-backend/internal/enrich"
	"github.com/Brown-1023/document-parsing-backend/internal/store"
)

var (
	assessInput    string
	assessOut      string
	assessDB       string
	assessEnrich   bool
	assessParallel int
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the full assessment over a batch of documents",
	Long: `Scores every document against the compliance rubric, groups documents
by lake, and produces trend assessments for lakes with at least three
distinct reporting years. The result is written as JSON.`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVar(&assessInput, "input", "", "JSON documents file or directory (required)")
	assessCmd.Flags().StringVar(&assessOut, "out", "-", "output path, or - for stdout")
	assessCmd.Flags().StringVar(&assessDB, "db", "", "SQLite path to persist the run (optional)")
	assessCmd.Flags().BoolVar(&assessEnrich, "enrich", false, "append model-generated insights (needs ANTHROPIC_API_KEY)")
	assessCmd.Flags().IntVar(&assessParallel, "parallel", 0, "documents/lakes processed concurrently (0 = number of CPUs)")
	assessCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	rs, err := loadRules()
	if err != nil {
		return err
	}
	docs, err := loadDocuments(assessInput)
	if err != nil {
		return err
	}

	opts := []assessment.Option{assessment.WithParallelism(assessParallel)}
	if assessEnrich {
		enricher, err := enrich.NewEnricherFromEnv()
		if err != nil {
			return fmt.Errorf("enrichment requested: %w", err)
		}
		opts = append(opts, assessment.WithInsightProvider(enricher))
	}

	res, err := assessment.New(rs, opts...).Run(cmd.Context(), docs)
	if err != nil {
		return err
	}
	for _, issue := range res.Issues {
		log.Printf("issue: %s", issue.Error())
	}

	if assessDB != "" {
		db, err := store.Open(assessDB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveRun(res); err != nil {
			return fmt.Errorf("persist run: %w", err)
		}
		log.Printf("run %s saved to %s", res.RunID, assessDB)
	}

	return writeJSON(assessOut, res)
}
