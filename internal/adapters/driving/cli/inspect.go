package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect [ink-file]",
	Short: "Summarise an ink container",
	Long: `Decodes an ink container and prints its version, device, stroke and point
counts, bounds, properties, sensor channels and chunk compression.

With no argument the configured ink output (iot.uim by default) is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(inspectCmd)
}

// inkSummaryView is the structured form of an ink summary.
type inkSummaryView struct {
	Path        string            `json:"path" yaml:"path"`
	Version     string            `json:"version" yaml:"version"`
	ModelID     string            `json:"model_id" yaml:"model_id"`
	Device      deviceView        `json:"device" yaml:"device"`
	StrokeCount int               `json:"strokes" yaml:"strokes"`
	PointCount  int               `json:"points" yaml:"points"`
	Bounds      [4]float32        `json:"bounds" yaml:"bounds,flow"`
	Properties  map[string]string `json:"properties" yaml:"properties"`
	Channels    []string          `json:"channels" yaml:"channels"`
	Chunks      []chunkView       `json:"chunks" yaml:"chunks"`
}

type deviceView struct {
	Name   string `json:"name" yaml:"name"`
	Serial string `json:"serial,omitempty" yaml:"serial,omitempty"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`
}

type chunkView struct {
	ID          string `json:"id" yaml:"id"`
	Size        int    `json:"size" yaml:"size"`
	Compression string `json:"compression" yaml:"compression"`
}

func newInkSummaryView(s *domain.InkSummary) inkSummaryView {
	v := inkSummaryView{
		Path:        s.Path,
		Version:     s.Version,
		ModelID:     s.ModelID,
		Device:      deviceView{Name: s.Device.Name, Serial: s.Device.Serial, Model: s.Device.Model},
		StrokeCount: s.StrokeCount,
		PointCount:  s.PointCount,
		Bounds:      [4]float32{s.Bounds.X, s.Bounds.Y, s.Bounds.Width, s.Bounds.Height},
		Properties:  make(map[string]string, len(s.Properties)),
		Channels:    make([]string, 0, len(s.Channels)),
		Chunks:      make([]chunkView, 0, len(s.Chunks)),
	}
	for _, p := range s.Properties {
		v.Properties[p.Name] = p.Value
	}
	for _, ch := range s.Channels {
		v.Channels = append(v.Channels, string(ch))
	}
	for _, c := range s.Chunks {
		v.Chunks = append(v.Chunks, chunkView{ID: c.ID, Size: c.Size, Compression: string(c.Compression)})
	}
	return v
}

func runInspect(cmd *cobra.Command, args []string) error {
	if inspectService == nil {
		return errors.New("inspect service not configured")
	}
	if err := checkFormat(inspectFormat); err != nil {
		return err
	}

	path, err := inspectPath(args)
	if err != nil {
		return err
	}

	summary, err := inspectService.Inspect(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	if inspectFormat != formatText {
		return writeStructured(cmd, inspectFormat, newInkSummaryView(summary))
	}
	printInkSummary(newPrinter(cmd), summary)
	return nil
}

func inspectPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if settingsService == nil {
		return domain.DefaultAppSettings().Output.InkFile, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return filepath.Join(settings.Output.Dir, settings.Output.InkFile), nil
}

func printInkSummary(p *printer, s *domain.InkSummary) {
	p.title(s.Path)
	p.field("Version:", "%s", s.Version)
	p.field("Model:  ", "%s", s.ModelID)
	if s.Device.Name != "" {
		p.field("Device: ", "%s", s.Device.Name)
	}
	p.field("Strokes:", "%d (%d points)", s.StrokeCount, s.PointCount)
	p.field("Bounds: ", "%.1f,%.1f %.1fx%.1f", s.Bounds.X, s.Bounds.Y, s.Bounds.Width, s.Bounds.Height)

	if len(s.Properties) > 0 {
		p.cmd.Println()
		p.cmd.Println("Properties:")
		for _, prop := range s.Properties {
			p.cmd.Printf("  %s = %s\n", prop.Name, prop.Value)
		}
	}
	if len(s.Channels) > 0 {
		p.cmd.Println()
		p.cmd.Println("Channels:")
		for _, ch := range s.Channels {
			p.cmd.Printf("  %s\n", ch)
		}
	}
	if len(s.Chunks) > 0 {
		p.cmd.Println()
		p.cmd.Println("Chunks:")
		for _, c := range s.Chunks {
			p.cmd.Printf("  %s  %8d bytes  %s\n", c.ID, c.Size, c.Compression)
		}
	}
}
