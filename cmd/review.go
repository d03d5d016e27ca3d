package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/session"
)

var reviewJustify bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review recommendations one by one with structured feedback",
	Long: `Presents each recommended course in turn. Keep a course that fits,
or mark it adjust/reject with a short reason. Every verdict is classified
and saved immediately; rejected courses never come back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(reviewJustify)
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

		sess := session.New(p, e.retriever, e.store, e.cfg.Retrieval.TopN, e.logger)
		if err := sess.Start(ctx); err != nil {
			return err
		}
		if sess.EmptyResult() {
			fmt.Println("Nothing to review: the catalog is empty or every candidate was previously rejected.")
			return nil
		}

		items := sess.Items()
		if reviewJustify && e.justifier != nil {
			if err := e.justifier.Justify(ctx, p, items); err != nil {
				return err
			}
		}

		for sess.State() == session.StatePresenting {
			cur, err := sess.Current()
			if err != nil {
				return err
			}

			fmt.Printf("\n[%d/%d] %s (%s)\n", sess.Reviewed()+1, len(items), cur.Title, cur.Provider)
			fmt.Printf("  Level: %s | Format: %s | %gh | Confidence: %.0f%%\n",
				orDash(cur.Level), orDash(cur.Format), cur.DurationHours, cur.ConfidenceScore*100)
			if len(cur.Skills) > 0 {
				fmt.Printf("  Skills: %s\n", strings.Join(cur.Skills, ", "))
			}
			if cur.Justification != "" {
				fmt.Printf("  Why: %s\n", cur.Justification)
			}

			verdict := promptui.Select{
				Label: "Your verdict",
				Items: []string{"keep", "adjust", "reject"},
			}
			_, choice, err := verdict.Run()
			if err != nil {
				fmt.Println("\nReview interrupted. Verdicts so far are saved.")
				return nil
			}

			if err := sess.OnDecision(ctx, feedback.Type(choice)); err != nil {
				return err
			}

			if sess.State() == session.StateAwaitingReason {
				reasonPrompt := promptui.Prompt{
					Label: "Why? (blank keeps the default)",
				}
				reason, err := reasonPrompt.Run()
				if err != nil {
					fmt.Println("\nReview interrupted. Verdicts so far are saved.")
					return nil
				}
				if err := sess.OnReason(ctx, reason); err != nil {
					if errors.Is(err, session.ErrInconsistentLogTail) {
						fmt.Printf("  Warning: %v\n", err)
					} else {
						return err
					}
				}
			}
		}

		fmt.Printf("\nReviewed %d course(s). ", sess.Reviewed())
		fmt.Println(feedback.Insights(sess.Log()).Summary())
		return nil
	},
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewJustify, "justify", false, "generate per-course justification text via the LLM")
	rootCmd.AddCommand(reviewCmd)
}
