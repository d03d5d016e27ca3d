package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/coachable/course-coach/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing skill matching, course search, recommendation and feedback tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(true)
		if err != nil {
			return err
		}
		defer e.Close()

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "course-coach MCP server started on stdio (catalog=%d courses)\n",
			e.catalog.Count())

		srv := mcpserver.NewServer(e.matcher, e.catalog, e.store, e.editor,
			e.retriever, e.justifier, e.cfg.Retrieval.TopN, e.logger)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
