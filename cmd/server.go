package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coachable/course-coach/internal/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API and WebSocket review server",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engineForCmd(true)
		if err != nil {
			return err
		}
		defer e.Close()

		srv := server.New(server.Config{
			Host:     e.cfg.Server.Host,
			Port:     e.cfg.Server.Port,
			TopN:     e.cfg.Retrieval.TopN,
			AllowAll: e.cfg.Server.AllowAll,
		}, e.store, e.editor, e.retriever, e.justifier, e.logger)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-stop:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
