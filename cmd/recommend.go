package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	recommendTopN    int
	recommendJustify bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print course recommendations for the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(recommendJustify)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		p, err := e.store.Load(ctx, e.cfg.User.ID)
		if err != nil {
			return err
		}
		if p.CompanyGoal == "" {
			p.CompanyGoal = e.cfg.User.CompanyGoal
		}

		topN := recommendTopN
		if topN <= 0 {
			topN = e.cfg.Retrieval.TopN
		}

		recs, err := e.retriever.Retrieve(ctx, p, topN)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("Nothing to recommend: the catalog is empty or every candidate was previously rejected.")
			return nil
		}

		if recommendJustify && e.justifier != nil {
			if err := e.justifier.Justify(ctx, p, recs); err != nil {
				return err
			}
		}

		for i, r := range recs {
			fmt.Printf("%d. %s (%s)\n", i+1, r.Title, r.Provider)
			fmt.Printf("   Level: %s | Format: %s | %gh | Confidence: %.0f%%\n",
				orDash(r.Level), orDash(r.Format), r.DurationHours, r.ConfidenceScore*100)
			if len(r.Skills) > 0 {
				fmt.Printf("   Skills: %s\n", strings.Join(r.Skills, ", "))
			}
			if r.Justification != "" {
				fmt.Printf("   Why: %s\n", r.Justification)
			}
			if r.URL != "" {
				fmt.Printf("   %s\n", r.URL)
			}
			fmt.Println()
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendTopN, "top-n", "n", 0, "number of courses (default from config)")
	recommendCmd.Flags().BoolVar(&recommendJustify, "justify", false, "generate per-course justification text via the LLM")
	rootCmd.AddCommand(recommendCmd)
}
