package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

var settingsFormat string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the stored conversion settings.

Settings live in config.toml inside the configuration directory
(~/.paperink unless --config-dir is given). Command line flags
override them for a single run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting by its config key, for example:

  paperink settings set parser.cropping_ink true
  paperink settings set encoder.compression lz4
  paperink settings set export.csv_layout spline_x,spline_y,pressure

Run 'paperink settings keys' for the full list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.Flags().StringVarP(&settingsFormat, "format", "f", formatText, "output format: text, json or yaml")
	settingsShowCmd.Flags().StringVarP(&settingsFormat, "format", "f", formatText, "output format: text, json or yaml")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

// settingsView mirrors the config file layout.
type settingsView struct {
	Parser struct {
		CroppingInk    bool `json:"cropping_ink" yaml:"cropping_ink"`
		CroppingOffset int  `json:"cropping_offset" yaml:"cropping_offset"`
		TemplateDPI    int  `json:"template_dpi" yaml:"template_dpi"`
	} `json:"parser" yaml:"parser"`
	Encoder struct {
		Compression string `json:"compression" yaml:"compression"`
	} `json:"encoder" yaml:"encoder"`
	Export struct {
		CSV        bool     `json:"csv" yaml:"csv"`
		JSON       bool     `json:"json" yaml:"json"`
		CSVLayout  []string `json:"csv_layout" yaml:"csv_layout,flow"`
		OverlayInk bool     `json:"overlay_ink" yaml:"overlay_ink"`
	} `json:"export" yaml:"export"`
	Output struct {
		Dir          string `json:"dir" yaml:"dir"`
		InkFile      string `json:"ink_file" yaml:"ink_file"`
		TemplateFile string `json:"template_file" yaml:"template_file"`
		CSVFile      string `json:"csv_file" yaml:"csv_file"`
		JSONFile     string `json:"json_file" yaml:"json_file"`
	} `json:"output" yaml:"output"`
	History struct {
		Enabled bool `json:"enabled" yaml:"enabled"`
	} `json:"history" yaml:"history"`
	Watch struct {
		MinInterval string `json:"min_interval" yaml:"min_interval"`
	} `json:"watch" yaml:"watch"`
}

func newSettingsView(s *domain.AppSettings) settingsView {
	var v settingsView
	v.Parser.CroppingInk = s.Parser.CroppingInk
	v.Parser.CroppingOffset = s.Parser.CroppingOffset
	v.Parser.TemplateDPI = s.Parser.TemplateDPI
	v.Encoder.Compression = s.Encoder.Compression.String()
	v.Export.CSV = s.Export.CSV
	v.Export.JSON = s.Export.JSON
	v.Export.CSVLayout = domain.LayoutNames(s.Export.CSVLayout)
	v.Export.OverlayInk = s.Export.OverlayInk
	v.Output.Dir = s.Output.Dir
	v.Output.InkFile = s.Output.InkFile
	v.Output.TemplateFile = s.Output.TemplateFile
	v.Output.CSVFile = s.Output.CSVFile
	v.Output.JSONFile = s.Output.JSONFile
	v.History.Enabled = s.History.Enabled
	v.Watch.MinInterval = s.Watch.MinInterval.String()
	return v
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := checkFormat(settingsFormat); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if settingsFormat != formatText {
		return writeStructured(cmd, settingsFormat, newSettingsView(settings))
	}

	p := newPrinter(cmd)
	p.title("Current Settings")
	cmd.Println()

	cmd.Println("[Parser]")
	cmd.Printf("  Crop ink: %s\n", yesNo(settings.Parser.CroppingInk))
	cmd.Printf("  Cropping offset: %d\n", settings.Parser.CroppingOffset)
	cmd.Printf("  Template DPI: %d\n", settings.Parser.TemplateDPI)
	cmd.Println()

	cmd.Println("[Encoder]")
	cmd.Printf("  Compression: %s\n", settings.Encoder.Compression.Description())
	cmd.Println()

	cmd.Println("[Export]")
	cmd.Printf("  CSV: %s\n", yesNo(settings.Export.CSV))
	cmd.Printf("  CSV layout: %s\n", strings.Join(domain.LayoutNames(settings.Export.CSVLayout), ", "))
	cmd.Printf("  JSON: %s\n", yesNo(settings.Export.JSON))
	cmd.Printf("  Overlay ink: %s\n", yesNo(settings.Export.OverlayInk))
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Directory: %s\n", settings.Output.Dir)
	cmd.Printf("  Ink file: %s\n", settings.Output.InkFile)
	cmd.Printf("  Template file: %s\n", settings.Output.TemplateFile)
	cmd.Printf("  CSV file: %s\n", settings.Output.CSVFile)
	cmd.Printf("  JSON file: %s\n", settings.Output.JSONFile)
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Enabled: %s\n", yesNo(settings.History.Enabled))
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Minimum interval: %s\n", settings.Watch.MinInterval)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown setting %q, run 'paperink settings keys' to list them", key)
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	cmd.Printf("%s reset to default\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
