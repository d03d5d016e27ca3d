package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize course-coach configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure course-coach and generates a .course-coach.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
