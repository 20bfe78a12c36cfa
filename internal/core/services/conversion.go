package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
	"github.com/custodia-labs/paperink/internal/logger"
)

// Exporter names looked up in the exporter registry.
const (
	ExporterCSV  = "csv"
	ExporterJSON = "json"
)

// Ensure ConversionService implements the interface.
var _ driving.ConversionService = (*ConversionService)(nil)

// ConversionService runs the paper to ink pipeline.
type ConversionService struct {
	parser    driven.PaperParser
	encoders  driven.InkEncoderFactory
	exporters driven.ExporterRegistry
	templates driven.TemplateWriter
	sink      driven.OutputSink

	history  driven.HistoryStore
	digester driven.Digester

	// mu serialises Configure, Parse and ParseTemplate on the shared parser.
	mu  sync.Mutex
	now func() time.Time
}

// ConversionOption configures optional collaborators.
type ConversionOption func(*ConversionService)

// WithHistory records every conversion in store. digester may be nil,
// in which case records carry no input digest.
func WithHistory(store driven.HistoryStore, digester driven.Digester) ConversionOption {
	return func(s *ConversionService) {
		s.history = store
		s.digester = digester
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ConversionOption {
	return func(s *ConversionService) {
		s.now = now
	}
}

// NewConversionService creates a conversion service.
func NewConversionService(
	parser driven.PaperParser,
	encoders driven.InkEncoderFactory,
	exporters driven.ExporterRegistry,
	templates driven.TemplateWriter,
	sink driven.OutputSink,
	opts ...ConversionOption,
) *ConversionService {
	s := &ConversionService{
		parser:    parser,
		encoders:  encoders,
		exporters: exporters,
		templates: templates,
		sink:      sink,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert parses the capture, writes the ink container and template, then
// the optional CSV and JSON exports. It stops at the first failing step.
// When history is configured the attempt is recorded whether it failed or not.
func (s *ConversionService) Convert(ctx context.Context, req domain.ConversionRequest) (*domain.ConversionResult, error) {
	started := s.now()
	id := uuid.NewString()

	logger.Section("Convert " + req.Input)
	result, err := s.convert(ctx, req)
	finished := s.now()

	s.record(ctx, id, req, result, err, started, finished)

	if err != nil {
		return nil, err
	}
	result.ID = id
	result.Duration = finished.Sub(started)
	logger.Info("converted %s: %d strokes, %d points in %s",
		req.Input, result.StrokeCount, result.PointCount, result.Duration)
	return result, nil
}

//nolint:gocyclo // Pipeline function with necessary sequential steps
func (s *ConversionService) convert(ctx context.Context, req domain.ConversionRequest) (*domain.ConversionResult, error) {
	// 1. Validate the request
	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if s.parser == nil || s.encoders == nil || s.templates == nil || s.sink == nil {
		return nil, errors.New("conversion pipeline not configured")
	}

	// 2. Parse ink and template with one parser configuration
	model, template, err := s.parse(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Encode the ink container
	done := logger.Step("encode ink")
	encoder, err := s.encoders.NewEncoder(req.Compression)
	if err != nil {
		return nil, fmt.Errorf("encode ink: %w", err)
	}
	data, err := encoder.Encode(model)
	done()
	if err != nil {
		return nil, fmt.Errorf("encode ink: %w", err)
	}

	// 4. Write the ink file
	done = logger.Step("write ink")
	_, err = s.sink.Write(ctx, req.Outputs.Ink, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	done()
	if err != nil {
		return nil, fmt.Errorf("write ink: %w", err)
	}

	// 5. Overlay and write the template
	if req.OverlayInk {
		done = logger.Step("overlay ink")
		template, err = s.templates.Overlay(template, model, templateScale(req.Parser.TemplateDPI))
		done()
		if err != nil {
			return nil, fmt.Errorf("overlay ink: %w", err)
		}
	}
	done = logger.Step("write template")
	_, err = s.sink.Write(ctx, req.Outputs.Template, func(w io.Writer) error {
		return s.templates.WriteTemplate(template, w)
	})
	done()
	if err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}

	// 6. Optional exports
	exportOpts := driven.ExportOptions{Layout: req.CSVLayout}
	if req.Outputs.CSV != "" {
		if err := s.export(ctx, ExporterCSV, model, exportOpts, req.Outputs.CSV); err != nil {
			return nil, err
		}
	}
	if req.Outputs.JSON != "" {
		if err := s.export(ctx, ExporterJSON, model, exportOpts, req.Outputs.JSON); err != nil {
			return nil, err
		}
	}

	_, cropped := model.Property(domain.PropertyCropRect)
	bounds := template.Bounds()
	return &domain.ConversionResult{
		Input:          req.Input,
		Outputs:        req.Outputs,
		ModelID:        model.ID,
		StrokeCount:    len(model.Strokes),
		PointCount:     model.PointCount(),
		InkBytes:       len(data),
		TemplateWidth:  bounds.Dx(),
		TemplateHeight: bounds.Dy(),
		Cropped:        cropped,
	}, nil
}

func (s *ConversionService) parse(ctx context.Context, req domain.ConversionRequest) (*domain.InkModel, image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.parser.Configure(req.Parser); err != nil {
		return nil, nil, fmt.Errorf("configure parser: %w", err)
	}

	done := logger.Step("parse ink")
	model, err := s.parser.Parse(ctx, req.Input)
	done()
	if err != nil {
		return nil, nil, fmt.Errorf("parse ink: %w", err)
	}

	done = logger.Step("parse template")
	template, err := s.parser.ParseTemplate(ctx, req.Input)
	done()
	if err != nil {
		return nil, nil, fmt.Errorf("parse template: %w", err)
	}
	return model, template, nil
}

func (s *ConversionService) export(
	ctx context.Context,
	name string,
	model *domain.InkModel,
	opts driven.ExportOptions,
	path string,
) error {
	if s.exporters == nil {
		return fmt.Errorf("export %s: exporter registry not configured", name)
	}
	exporter, ok := s.exporters.Get(name)
	if !ok {
		return fmt.Errorf("export %s: %w", name, domain.ErrNotFound)
	}

	done := logger.Step("export " + name)
	defer done()
	_, err := s.sink.Write(ctx, path, func(w io.Writer) error {
		return exporter.Export(ctx, model, opts, w)
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}
	return nil
}

// record saves a history entry. Failures to record never fail the conversion.
func (s *ConversionService) record(
	ctx context.Context,
	id string,
	req domain.ConversionRequest,
	result *domain.ConversionResult,
	convErr error,
	started, finished time.Time,
) {
	if s.history == nil {
		return
	}

	rec := &domain.ConversionRecord{
		ID:         id,
		Input:      req.Input,
		Outputs:    req.Outputs,
		Status:     domain.ConversionSucceeded,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if convErr != nil {
		rec.Status = domain.ConversionFailed
		rec.Error = convErr.Error()
	}
	if result != nil {
		rec.StrokeCount = result.StrokeCount
		rec.PointCount = result.PointCount
	}
	if s.digester != nil && req.Input != "" {
		if digest, err := s.digester.DigestFile(req.Input); err == nil {
			rec.InputDigest = digest
		} else {
			logger.Debug("digest %s: %v", req.Input, err)
		}
	}

	// Record even when the caller's context was cancelled mid-conversion.
	if err := s.history.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("failed to record conversion %s: %v", id, err)
	}
}

// validateRequest checks the request and fills defaults in place.
func validateRequest(req *domain.ConversionRequest) error {
	if req.Input == "" {
		return fmt.Errorf("input path is required: %w", domain.ErrInvalidInput)
	}
	if req.Outputs.Ink == "" || req.Outputs.Template == "" {
		return fmt.Errorf("ink and template output paths are required: %w", domain.ErrInvalidInput)
	}
	if req.Compression == "" {
		req.Compression = domain.CompressionNone
	}
	if !req.Compression.IsValid() {
		return fmt.Errorf("compression %q: %w", req.Compression, domain.ErrUnsupportedType)
	}
	if req.Outputs.CSV != "" {
		if len(req.CSVLayout) == 0 {
			return domain.ErrEmptyLayout
		}
		for _, a := range req.CSVLayout {
			if !a.IsValid() {
				return fmt.Errorf("stroke attribute %q: %w", a, domain.ErrUnsupportedType)
			}
		}
	}
	return nil
}

// templateScale returns template pixels per DIP.
func templateScale(dpi int) float64 {
	if dpi <= 0 {
		return 1
	}
	return float64(dpi) / 96
}

// RequestFromSettings builds a conversion request for input using the
// configured output file names.
func RequestFromSettings(input string, s domain.AppSettings) domain.ConversionRequest {
	return domain.ConversionRequest{
		Input:       input,
		Outputs:     domain.OutputsFromSettings(s),
		Parser:      s.Parser.Options(),
		Compression: s.Encoder.Compression,
		CSVLayout:   s.Export.CSVLayout,
		OverlayInk:  s.Export.OverlayInk,
	}
}

// RequestForInput builds a conversion request whose outputs are named
// after the input file and placed in dir.
func RequestForInput(input, dir string, s domain.AppSettings) domain.ConversionRequest {
	req := RequestFromSettings(input, s)
	req.Outputs = domain.OutputsForInput(input, dir, s.Export)
	return req
}
