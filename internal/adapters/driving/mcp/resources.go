package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for paperink resources.
	uriScheme = "paperink://"

	// historyLimit caps the records returned by the history resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Most recent conversions, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{id}",
		Name:        "conversion",
		Description: "A single recorded conversion",
		MIMEType:    "application/json",
	}, s.handleConversionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Current conversion settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// historyInfo is the JSON form of a conversion record.
type historyInfo struct {
	ID         string   `json:"id"`
	Input      string   `json:"input"`
	Digest     string   `json:"input_digest,omitempty"`
	Status     string   `json:"status"`
	Error      string   `json:"error,omitempty"`
	Outputs    []string `json:"outputs"`
	Strokes    int      `json:"strokes"`
	Points     int      `json:"points"`
	StartedAt  string   `json:"started_at"`
	DurationMS int64    `json:"duration_ms"`
}

func newHistoryInfo(r *domain.ConversionRecord) historyInfo {
	return historyInfo{
		ID:         r.ID,
		Input:      r.Input,
		Digest:     r.InputDigest,
		Status:     string(r.Status),
		Error:      r.Error,
		Outputs:    r.Outputs.All(),
		Strokes:    r.StrokeCount,
		Points:     r.PointCount,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: r.Duration().Milliseconds(),
	}
}

// handleHistoryResource returns the most recent conversions.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	records, err := s.ports.History.List(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	infos := make([]historyInfo, len(records))
	for i := range records {
		infos[i] = newHistoryInfo(&records[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleConversionResource returns one recorded conversion.
func (s *Server) handleConversionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractRecordID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	r, err := s.ports.History.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting conversion: %w", err)
	}

	data, err := json.MarshalIndent(newHistoryInfo(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling conversion: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleSettingsResource returns the current settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	data, err := json.MarshalIndent(map[string]any{
		"cropping_ink":    settings.Parser.CroppingInk,
		"cropping_offset": settings.Parser.CroppingOffset,
		"template_dpi":    settings.Parser.TemplateDPI,
		"compression":     settings.Encoder.Compression,
		"csv":             settings.Export.CSV,
		"json":            settings.Export.JSON,
		"csv_layout":      settings.Export.CSVLayout,
		"overlay_ink":     settings.Export.OverlayInk,
		"output_dir":      settings.Output.Dir,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRecordID extracts the record ID from a URI like paperink://history/{id}.
func extractRecordID(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
