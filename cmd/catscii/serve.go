package main

import (
	"context"
	"fmt"

	"github.com/izalutski/catscii/internal/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a freshly rendered cat on every request to /",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from CATSCII_ADDR or 0.0.0.0:8080)")
	serveCmd.Flags().Bool("debug-endpoints", false, "Expose /panic for exercising crash reporting")
	serveCmd.Flags().Bool("print-on-start", false, "Also print one cat to stdout while the server starts")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	printOnStart, _ := cmd.Flags().GetBool("print-on-start")

	server := api.NewServer(a.pipeline, api.Options{
		Addr:           a.cfg.Addr,
		DebugEndpoints: a.cfg.DebugEndpoints,
		Logger:         a.logger,
	})

	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)

	printErr := make(chan error, 1)
	if printOnStart {
		// Independent of the listener; a failure stops the server like the print command would.
		go func() {
			doc, err := a.pipeline.Run(ctx)
			if err != nil {
				printErr <- err
				cancel(err)
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
		}()
	}

	if err := server.Run(ctx); err != nil {
		return err
	}

	select {
	case err := <-printErr:
		return fmt.Errorf("print on start: %w", err)
	default:
		return nil
	}
}
