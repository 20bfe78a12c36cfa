package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/services"
)

// ConvertInput is the input schema for the convert_paper tool.
type ConvertInput struct {
	Input       string   `json:"input" jsonschema:"path of the .paper capture to convert"`
	OutDir      string   `json:"out_dir,omitempty" jsonschema:"directory for the outputs (default from settings)"`
	NameByInput bool     `json:"name_by_input,omitempty" jsonschema:"name outputs after the input file instead of iot.uim and template.png"`
	Crop        *bool    `json:"crop,omitempty" jsonschema:"crop ink and template to the ink bounds"`
	CropOffset  *int     `json:"crop_offset,omitempty" jsonschema:"margin in DIP kept around the ink when cropping"`
	Compression string   `json:"compression,omitempty" jsonschema:"ink chunk compression: none, zip or lz4"`
	CSV         *bool    `json:"csv,omitempty" jsonschema:"write the sensor sample CSV export"`
	JSON        *bool    `json:"json,omitempty" jsonschema:"write the JSON model export"`
	Layout      []string `json:"layout,omitempty" jsonschema:"CSV column order, e.g. spline_x, spline_y, pressure"`
	Overlay     *bool    `json:"overlay,omitempty" jsonschema:"draw the ink onto the saved template"`
}

// ConvertOutput is the output schema for the convert_paper tool.
type ConvertOutput struct {
	ID          string   `json:"id"`
	ModelID     string   `json:"model_id"`
	Outputs     []string `json:"outputs"`
	StrokeCount int      `json:"stroke_count"`
	PointCount  int      `json:"point_count"`
	InkBytes    int      `json:"ink_bytes"`
	Cropped     bool     `json:"cropped"`
	DurationMS  int64    `json:"duration_ms"`
}

// InspectInput is the input schema for the inspect_ink tool.
type InspectInput struct {
	Path string `json:"path" jsonschema:"path of the ink container (.uim) to inspect"`
}

// InspectOutput is the output schema for the inspect_ink tool.
type InspectOutput struct {
	Version     string            `json:"version"`
	ModelID     string            `json:"model_id"`
	Device      string            `json:"device,omitempty"`
	StrokeCount int               `json:"stroke_count"`
	PointCount  int               `json:"point_count"`
	Bounds      [4]float32        `json:"bounds"`
	Properties  map[string]string `json:"properties"`
	Channels    []string          `json:"channels"`
	Chunks      []ChunkOutput     `json:"chunks"`
}

// ChunkOutput describes one ink container chunk.
type ChunkOutput struct {
	ID          string `json:"id"`
	Size        int    `json:"size"`
	Compression string `json:"compression"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "convert_paper",
		Description: "Convert a smart pad paper capture into an ink container, template PNG and optional CSV/JSON exports",
	}, s.handleConvert)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inspect_ink",
		Description: "Summarise an ink container: version, device, strokes, points, properties and chunks",
	}, s.handleInspect)
}

// handleConvert handles the convert_paper tool invocation.
func (s *Server) handleConvert(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConvertInput,
) (*mcp.CallToolResult, ConvertOutput, error) {
	if strings.TrimSpace(input.Input) == "" {
		return nil, ConvertOutput{}, fmt.Errorf("input is required: %w", domain.ErrInvalidInput)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, ConvertOutput{}, fmt.Errorf("loading settings: %w", err)
	}
	if err := applyConvertInput(settings, input); err != nil {
		return nil, ConvertOutput{}, err
	}

	req := services.RequestFromSettings(input.Input, *settings)
	if input.NameByInput {
		req = services.RequestForInput(input.Input, settings.Output.Dir, *settings)
	}

	result, err := s.ports.Conversion.Convert(ctx, req)
	if err != nil {
		return nil, ConvertOutput{}, err
	}

	return nil, ConvertOutput{
		ID:          result.ID,
		ModelID:     result.ModelID,
		Outputs:     result.Outputs.All(),
		StrokeCount: result.StrokeCount,
		PointCount:  result.PointCount,
		InkBytes:    result.InkBytes,
		Cropped:     result.Cropped,
		DurationMS:  result.Duration.Milliseconds(),
	}, nil
}

// applyConvertInput overrides settings with the arguments that were given.
func applyConvertInput(s *domain.AppSettings, in ConvertInput) error {
	if in.OutDir != "" {
		s.Output.Dir = in.OutDir
	}
	if in.Crop != nil {
		s.Parser.CroppingInk = *in.Crop
	}
	if in.CropOffset != nil {
		s.Parser.CroppingOffset = *in.CropOffset
	}
	if in.Compression != "" {
		s.Encoder.Compression = domain.Compression(strings.ToLower(in.Compression))
	}
	if in.CSV != nil {
		s.Export.CSV = *in.CSV
	}
	if in.JSON != nil {
		s.Export.JSON = *in.JSON
	}
	if len(in.Layout) > 0 {
		layout, err := domain.ParseStrokeLayout(in.Layout)
		if err != nil {
			return err
		}
		s.Export.CSVLayout = layout
	}
	if in.Overlay != nil {
		s.Export.OverlayInk = *in.Overlay
	}
	return s.Validate()
}

// handleInspect handles the inspect_ink tool invocation.
func (s *Server) handleInspect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InspectInput,
) (*mcp.CallToolResult, InspectOutput, error) {
	summary, err := s.ports.Inspect.Inspect(ctx, input.Path)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	output := InspectOutput{
		Version:     summary.Version,
		ModelID:     summary.ModelID,
		Device:      summary.Device.Name,
		StrokeCount: summary.StrokeCount,
		PointCount:  summary.PointCount,
		Bounds:      [4]float32{summary.Bounds.X, summary.Bounds.Y, summary.Bounds.Width, summary.Bounds.Height},
		Properties:  make(map[string]string, len(summary.Properties)),
		Channels:    make([]string, len(summary.Channels)),
		Chunks:      make([]ChunkOutput, len(summary.Chunks)),
	}
	for _, p := range summary.Properties {
		output.Properties[p.Name] = p.Value
	}
	for i, ch := range summary.Channels {
		output.Channels[i] = string(ch)
	}
	for i, c := range summary.Chunks {
		output.Chunks[i] = ChunkOutput{ID: c.ID, Size: c.Size, Compression: string(c.Compression)}
	}

	return nil, output, nil
}
