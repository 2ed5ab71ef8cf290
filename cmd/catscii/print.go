package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Render one cat and write the HTML document to stdout",
	RunE:  runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		a.logger.Info("stdout is a terminal; redirect to an .html file to view the cat in a browser")
	}

	doc, err := a.pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("render cat: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
	return err
}
