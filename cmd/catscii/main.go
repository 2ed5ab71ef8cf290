package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var artWidth int

func main() {
	rootCmd := &cobra.Command{
		Use:           "catscii",
		Short:         "catscii - random cats as ASCII art",
		Long:          "Fetch a random cat from The Cat API and render it as an ASCII-art HTML document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().IntVar(&artWidth, "width", 0, "Columns in the rendering (default from CATSCII_ART_WIDTH or 100)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(peekCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
