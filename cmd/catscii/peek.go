package main

import (
	"fmt"

	"github.com/izalutski/catscii/internal/art"
	"github.com/spf13/cobra"
)

var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Download one cat and dump its first bytes as hex",
	RunE:  runPeek,
}

func init() {
	peekCmd.Flags().Int("bytes", art.PreviewBytes, "Number of bytes to dump")
}

func runPeek(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("bytes")

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	data, err := a.pipeline.FetchImage(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch cat: %w", err)
	}
	a.logger.Debug("downloaded image", "bytes", len(data))

	_, err = fmt.Fprint(cmd.OutOrStdout(), art.HexPreview(data, n))
	return err
}
