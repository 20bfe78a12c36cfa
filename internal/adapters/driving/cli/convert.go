package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/services"
)

var (
	convertCrop        bool
	convertCropOffset  int
	convertDPI         int
	convertOutDir      string
	convertNoCSV       bool
	convertNoJSON      bool
	convertCompression string
	convertLayout      string
	convertOverlay     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [paper-file...]",
	Short: "Convert paper captures into digital ink",
	Long: `Converts a paper capture into a binary ink container (iot.uim), the page
template (template.png), and optional CSV and JSON exports (iot.csv, iot.json).

With no argument the capture at ink/iot/HelloInk.paper is converted. When
several captures are given each one is written to <out-dir>/<name>.uim,
<name>.png, <name>.csv and <name>.json. Conversion stops at the first failure.

Flags override the stored settings for this run only.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertCrop, "crop", false, "crop ink and template to the ink bounds")
	convertCmd.Flags().IntVar(&convertCropOffset, "crop-offset", 10, "margin in DIP kept around the ink when cropping")
	convertCmd.Flags().IntVar(&convertDPI, "dpi", 96, "template image resolution")
	convertCmd.Flags().StringVarP(&convertOutDir, "out-dir", "o", "", "output directory (default from settings)")
	convertCmd.Flags().BoolVar(&convertNoCSV, "no-csv", false, "skip the CSV export")
	convertCmd.Flags().BoolVar(&convertNoJSON, "no-json", false, "skip the JSON export")
	convertCmd.Flags().StringVar(&convertCompression, "compression", "none", "ink chunk compression (none, zip, lz4)")
	convertCmd.Flags().StringVar(&convertLayout, "layout", "",
		"comma separated CSV columns, e.g. spline_x,spline_y,pressure")
	convertCmd.Flags().BoolVar(&convertOverlay, "overlay", false, "draw the ink onto the saved template")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if conversionService == nil {
		return errors.New("conversion service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := applyConvertFlags(cmd, settings); err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{domain.DefaultPaperFile}
	}

	p := newPrinter(cmd)
	for _, input := range inputs {
		req := services.RequestFromSettings(input, *settings)
		if len(inputs) > 1 {
			req = services.RequestForInput(input, settings.Output.Dir, *settings)
		}

		result, err := conversionService.Convert(cmd.Context(), req)
		if err != nil {
			p.failure(fmt.Sprintf("Failed to convert %s", input))
			return fmt.Errorf("conversion failed: %w", err)
		}
		printConversion(p, result)
	}
	return nil
}

// applyConvertFlags overrides settings with the flags set on the command line.
func applyConvertFlags(cmd *cobra.Command, s *domain.AppSettings) error {
	flags := cmd.Flags()
	if flags.Changed("crop") {
		s.Parser.CroppingInk = convertCrop
	}
	if flags.Changed("crop-offset") {
		s.Parser.CroppingOffset = convertCropOffset
	}
	if flags.Changed("dpi") {
		s.Parser.TemplateDPI = convertDPI
	}
	if flags.Changed("out-dir") {
		s.Output.Dir = convertOutDir
	}
	if flags.Changed("no-csv") {
		s.Export.CSV = !convertNoCSV
	}
	if flags.Changed("no-json") {
		s.Export.JSON = !convertNoJSON
	}
	if flags.Changed("compression") {
		s.Encoder.Compression = domain.Compression(convertCompression)
	}
	if flags.Changed("layout") {
		layout, err := parseLayout(convertLayout)
		if err != nil {
			return err
		}
		s.Export.CSVLayout = layout
	}
	if flags.Changed("overlay") {
		s.Export.OverlayInk = convertOverlay
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func parseLayout(value string) ([]domain.StrokeAttribute, error) {
	if strings.TrimSpace(value) == "" {
		return nil, domain.ErrEmptyLayout
	}
	return domain.ParseStrokeLayout(strings.Split(value, ","))
}

func printConversion(p *printer, r *domain.ConversionResult) {
	p.success(fmt.Sprintf("Converted %s", r.Input))
	p.field("Strokes: ", "%d (%d points)", r.StrokeCount, r.PointCount)
	p.field("Ink:     ", "%s (%d bytes)", r.Outputs.Ink, r.InkBytes)
	p.field("Template:", "%s (%dx%d)", r.Outputs.Template, r.TemplateWidth, r.TemplateHeight)
	if r.Outputs.CSV != "" {
		p.field("CSV:     ", "%s", r.Outputs.CSV)
	}
	if r.Outputs.JSON != "" {
		p.field("JSON:    ", "%s", r.Outputs.JSON)
	}
	if r.Cropped {
		p.field("Cropped: ", "yes")
	}
	p.field("Took:    ", "%s", r.Duration.Round(time.Millisecond))
	p.cmd.Println()
}
