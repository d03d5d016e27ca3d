package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "course-coach",
	Short: "Coachable course recommendations grounded in a skill taxonomy",
	Long: `Course Coach recommends courses against your learning goal using
semantic search over a controlled skill taxonomy and a course catalog.
Every recommendation can be reviewed with structured feedback, which is
classified and fed back into future retrieval.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "config file path")
}
