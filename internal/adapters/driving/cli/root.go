// Package cli implements the paperink command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperink/internal/core/ports/driving"
	"github.com/custodia-labs/paperink/internal/logger"
)

// version is set by SetVersion from build information.
var version = "dev"

// Global flag values.
var (
	verbose   bool
	configDir string
)

// Services wired in by main through the setters below.
var (
	conversionService driving.ConversionService
	inspectService    driving.InspectService
	settingsService   driving.SettingsService
	historyService    driving.HistoryService
	watchService      driving.Watcher
)

// GlobalOptions are the persistent flags every command accepts.
type GlobalOptions struct {
	Verbose   bool
	ConfigDir string
}

// Initializer wires services once global flags are parsed.
type Initializer func(opts GlobalOptions) error

var initializer Initializer

var rootCmd = &cobra.Command{
	Use:   "paperink",
	Short: "Convert smart pad paper captures into digital ink",
	Long: `paperink converts paper captures recorded by smart pads into a binary
ink container, a PNG of the page template, and optional CSV and JSON exports.

Run without arguments after 'paperink sample' to try it on a demo capture:
  paperink sample
  paperink convert`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each conversion step to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.paperink)")
}

func persistentPreRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if initializer == nil {
		return nil
	}
	return initializer(GlobalOptions{Verbose: verbose, ConfigDir: configDir})
}

// Execute runs the root command. Command output goes to stdout.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

// SetVersion sets the version reported by 'paperink version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetInitializer registers the function that wires services before a
// command runs.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// SetConversionService sets the conversion service.
func SetConversionService(s driving.ConversionService) {
	conversionService = s
}

// SetInspectService sets the inspect service.
func SetInspectService(s driving.InspectService) {
	inspectService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetHistoryService sets the history service.
func SetHistoryService(s driving.HistoryService) {
	historyService = s
}

// SetWatchService sets the directory watcher.
func SetWatchService(s driving.Watcher) {
	watchService = s
}
