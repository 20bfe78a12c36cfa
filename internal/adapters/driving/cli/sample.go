package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/parsers/paper"
)

var (
	sampleCompression string
	sampleForce       bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample [path]",
	Short: "Write a demo paper capture",
	Long: `Writes a synthetic paper capture (three handwritten waves on a lined A5
page) so the converter can be tried without a smart pad.

With no argument the capture is written to ink/iot/HelloInk.paper, the
default input of 'paperink convert'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringVar(&sampleCompression, "compression", "zstd", "body compression (none, lz4, zstd)")
	sampleCmd.Flags().BoolVar(&sampleForce, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	path := domain.DefaultPaperFile
	if len(args) == 1 {
		path = args[0]
	}

	if !sampleForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	doc := paper.Sample(time.Now())
	doc.Header.Compression = sampleCompression
	data, err := paper.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}

	cmd.Printf("Wrote sample capture to %s (%d bytes, %d strokes)\n", path, len(data), len(doc.Strokes))
	return nil
}
