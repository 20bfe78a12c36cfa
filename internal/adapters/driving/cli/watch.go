package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/custodia-labs/paperink/internal/logger"
)

var (
	watchOutDir  string
	watchLogFile string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Convert captures as they appear in a directory",
	Long: `Watches a directory and converts every .paper file that is created or
rewritten there. Outputs are named after the capture, e.g. Letter.paper
becomes Letter.uim, Letter.png, Letter.csv and Letter.json.

Repeated writes to the same capture within watch.min_interval are ignored.
Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutDir, "out-dir", "o", "", "output directory (default: the watched directory)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "write verbose logs to a rotated file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	outDir := watchOutDir
	if outDir == "" {
		outDir = dir
	}

	if watchLogFile != "" {
		rotated := newRotatingLog(watchLogFile)
		defer rotated.Close()
		logger.SetOutput(rotated)
		logger.SetVerbose(true)
		defer func() {
			logger.SetVerbose(verbose)
			logger.SetOutput(os.Stderr)
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := watchService.Watch(ctx, dir, outDir)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	p := newPrinter(cmd)
	p.title(fmt.Sprintf("Watching %s (outputs in %s)", dir, outDir))
	for ev := range events {
		if ev.Err != nil {
			p.failure(fmt.Sprintf("Failed to convert %s: %v", ev.Input, ev.Err))
			continue
		}
		printConversion(p, ev.Result)
	}
	return nil
}

// newRotatingLog returns a size-rotated log file writer.
func newRotatingLog(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}
