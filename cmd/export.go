package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/feedback"
	"github.com/coachable/course-coach/internal/report"
)

var (
	exportFormat  string
	exportOut     string
	exportJustify bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a recommendations report as markdown or HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFormat != "md" && exportFormat != "html" {
			return fmt.Errorf("unsupported format %q (md or html)", exportFormat)
		}

		e, err := engineForCmd(exportJustify)
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

		recs, err := e.retriever.Retrieve(ctx, p, e.cfg.Retrieval.TopN)
		if err != nil {
			return err
		}
		if exportJustify && e.justifier != nil {
			if err := e.justifier.Justify(ctx, p, recs); err != nil {
				return err
			}
		}

		insights := feedback.Insights(p.FeedbackLog)
		rep := &report.Report{
			Profile:         p,
			Recommendations: recs,
			Insights:        &insights,
			GeneratedAt:     time.Now().UTC(),
		}

		var out []byte
		if exportFormat == "html" {
			out, err = rep.HTML()
			if err != nil {
				return err
			}
		} else {
			out = []byte(rep.Markdown())
		}

		if exportOut == "" || exportOut == "-" {
			_, err = os.Stdout.Write(out)
			return err
		}
		if err := os.WriteFile(exportOut, out, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Printf("Report written to %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "output format: md or html")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportJustify, "justify", false, "generate per-course justification text via the LLM")
	rootCmd.AddCommand(exportCmd)
}
