package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/feedback"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize feedback patterns from the review history",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.store.Load(cmd.Context(), e.cfg.User.ID)
		if err != nil {
			return err
		}

		report := feedback.Insights(p.FeedbackLog)
		if report.Total == 0 {
			fmt.Println("No feedback recorded yet. Run `course-coach review` first.")
			return nil
		}

		fmt.Printf("%d feedback entr(ies), %.0f%% rejection rate\n\n", report.Total, report.RejectionRate*100)
		fmt.Println("By verdict:")
		for _, t := range []feedback.Type{feedback.TypeKeep, feedback.TypeAdjust, feedback.TypeReject} {
			fmt.Printf("  %-7s %d\n", t, report.ByType[t])
		}
		if len(report.ByCategory) > 0 {
			fmt.Println("\nBy category:")
			for cat, n := range report.ByCategory {
				fmt.Printf("  %-16s %d\n", cat, n)
			}
		}
		if len(report.Patterns) > 0 {
			fmt.Println("\nPatterns:")
			for _, pat := range report.Patterns {
				fmt.Printf("  - %s\n", pat)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}
