package main

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/Brown-1023/document-parsing-backend/internal/compliance"
	"github.com/Brown-1023/document-parsing-backend/internal/params"
)

var (
	scoreInput string
	scoreOut   string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compliance-score documents without trend analysis",
	Long: `Scores each document's extracted parameters against the rubric and
prints the itemized results. No grouping or trend fitting is performed, so
this works on a single document.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreInput, "input", "", "JSON documents file or directory (required)")
	scoreCmd.Flags().StringVar(&scoreOut, "out", "-", "output path, or - for stdout")
	scoreCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	rs, err := loadRules()
	if err != nil {
		return err
	}
	docs, err := loadDocuments(scoreInput)
	if err != nil {
		return err
	}

	results := make([]compliance.Result, 0, len(docs))
	for _, doc := range docs {
		set := params.AddDerived(rs, params.Normalize(rs, doc.Metrics))
		results = append(results, compliance.Score(doc.ID, doc.DocType, set, rs))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].DocumentID < results[j].DocumentID })

	return writeJSON(scoreOut, results)
}
