package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// --- Mock implementations for conversion testing ---

// convMockParser implements driven.PaperParser for testing.
type convMockParser struct {
	mu          sync.Mutex
	opts        domain.ParserOptions
	model       *domain.InkModel
	template    image.Image
	configErr   error
	parseErr    error
	templateErr error
	calls       []string
}

func (m *convMockParser) Configure(opts domain.ParserOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "configure")
	if m.configErr != nil {
		return m.configErr
	}
	m.opts = opts
	return nil
}

func (m *convMockParser) Parse(_ context.Context, _ string) (*domain.InkModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "parse")
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	model := *m.model
	if m.opts.CropInk {
		model.Properties = append([]domain.Property(nil), model.Properties...)
		model.SetProperty(domain.PropertyCropRect, "0,0,10,10")
	}
	return &model, nil
}

func (m *convMockParser) ParseTemplate(_ context.Context, _ string) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "template")
	if m.templateErr != nil {
		return nil, m.templateErr
	}
	return m.template, nil
}

// convMockEncoder implements driven.InkEncoder for testing.
type convMockEncoder struct {
	compression domain.Compression
	err         error
}

func (m *convMockEncoder) Encode(model *domain.InkModel) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte("ink:" + model.ID + ":" + string(m.compression)), nil
}

func (m *convMockEncoder) Compression() domain.Compression { return m.compression }

// convMockEncoderFactory implements driven.InkEncoderFactory for testing.
type convMockEncoderFactory struct {
	mu        sync.Mutex
	encodeErr error
	requested []domain.Compression
}

func (m *convMockEncoderFactory) NewEncoder(c domain.Compression) (driven.InkEncoder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, c)
	return &convMockEncoder{compression: c, err: m.encodeErr}, nil
}

// convMockExporter implements driven.ModelExporter for testing.
type convMockExporter struct {
	name    string
	err     error
	layouts [][]domain.StrokeAttribute
}

func (m *convMockExporter) Name() string { return m.name }

func (m *convMockExporter) Export(_ context.Context, model *domain.InkModel, opts driven.ExportOptions, w io.Writer) error {
	m.layouts = append(m.layouts, opts.Layout)
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.name+":"+model.ID)
	return err
}

// convMockRegistry implements driven.ExporterRegistry for testing.
type convMockRegistry struct {
	exporters map[string]driven.ModelExporter
}

func (m *convMockRegistry) Get(name string) (driven.ModelExporter, bool) {
	e, ok := m.exporters[name]
	return e, ok
}

func (m *convMockRegistry) Names() []string {
	names := make([]string, 0, len(m.exporters))
	for name := range m.exporters {
		names = append(names, name)
	}
	return names
}

// convMockTemplates implements driven.TemplateWriter for testing.
type convMockTemplates struct {
	overlayScale float64
	overlaid     bool
	writeErr     error
}

func (m *convMockTemplates) WriteTemplate(img image.Image, w io.Writer) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	_, err := io.WriteString(w, img.Bounds().String())
	return err
}

func (m *convMockTemplates) Overlay(img image.Image, _ *domain.InkModel, scale float64) (image.Image, error) {
	m.overlaid = true
	m.overlayScale = scale
	return img, nil
}

// convMockSink implements driven.OutputSink, keeping outputs in memory.
type convMockSink struct {
	files  map[string][]byte
	failOn string
}

func newConvMockSink() *convMockSink {
	return &convMockSink{files: make(map[string][]byte)}
}

func (m *convMockSink) Write(_ context.Context, path string, write func(io.Writer) error) (int64, error) {
	if path == m.failOn {
		return 0, errors.New("disk full")
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return 0, err
	}
	m.files[path] = buf.Bytes()
	return int64(buf.Len()), nil
}

// convMockDigester implements driven.Digester for testing.
type convMockDigester struct {
	err error
}

func (m *convMockDigester) DigestFile(path string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "digest-of-" + path, nil
}

// --- Test helpers ---

type convFixture struct {
	parser    *convMockParser
	encoders  *convMockEncoderFactory
	csv       *convMockExporter
	json      *convMockExporter
	templates *convMockTemplates
	sink      *convMockSink
	history   *memory.HistoryStore
	service   *ConversionService
}

func newConvFixture() *convFixture {
	f := &convFixture{
		parser: &convMockParser{
			model: &domain.InkModel{
				ID: "model-1",
				Strokes: []domain.Stroke{
					{ID: "s1", Spline: domain.Spline{X: []float32{1, 2}, Y: []float32{3, 4}}},
					{ID: "s2", Spline: domain.Spline{X: []float32{5}, Y: []float32{6}}},
				},
			},
			template: image.NewRGBA(image.Rect(0, 0, 40, 30)),
		},
		encoders:  &convMockEncoderFactory{},
		csv:       &convMockExporter{name: ExporterCSV},
		json:      &convMockExporter{name: ExporterJSON},
		templates: &convMockTemplates{},
		sink:      newConvMockSink(),
		history:   memory.NewHistoryStore(),
	}

	var clockMu sync.Mutex
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.service = NewConversionService(
		f.parser,
		f.encoders,
		&convMockRegistry{exporters: map[string]driven.ModelExporter{
			ExporterCSV:  f.csv,
			ExporterJSON: f.json,
		}},
		f.templates,
		f.sink,
		WithHistory(f.history, &convMockDigester{}),
		WithClock(func() time.Time {
			clockMu.Lock()
			defer clockMu.Unlock()
			clock = clock.Add(250 * time.Millisecond)
			return clock
		}),
	)
	return f
}

func testRequest() domain.ConversionRequest {
	return RequestFromSettings("ink/iot/HelloInk.paper", domain.DefaultAppSettings())
}

// --- Tests ---

func TestConversionService_Convert_AllOutputs(t *testing.T) {
	f := newConvFixture()

	result, err := f.service.Convert(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Len(t, f.sink.files, 4)
	assert.Equal(t, "ink:model-1:none", string(f.sink.files["iot.uim"]))
	assert.Equal(t, "(0,0)-(40,30)", string(f.sink.files["template.png"]))
	assert.Equal(t, "csv:model-1", string(f.sink.files["iot.csv"]))
	assert.Equal(t, "json:model-1", string(f.sink.files["iot.json"]))

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "model-1", result.ModelID)
	assert.Equal(t, 2, result.StrokeCount)
	assert.Equal(t, 3, result.PointCount)
	assert.Equal(t, len("ink:model-1:none"), result.InkBytes)
	assert.Equal(t, 40, result.TemplateWidth)
	assert.Equal(t, 30, result.TemplateHeight)
	assert.False(t, result.Cropped)
	assert.Equal(t, 250*time.Millisecond, result.Duration)

	assert.Equal(t, []string{"configure", "parse", "template"}, f.parser.calls)
	require.Len(t, f.csv.layouts, 1)
	assert.Equal(t, domain.DefaultCSVLayout(), f.csv.layouts[0])
}

func TestConversionService_Convert_ExportsOptional(t *testing.T) {
	f := newConvFixture()
	req := testRequest()
	req.Outputs.CSV = ""
	req.Outputs.JSON = ""
	req.CSVLayout = nil

	_, err := f.service.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, f.sink.files, 2)
	assert.Empty(t, f.csv.layouts)
	assert.Empty(t, f.json.layouts)
}

func TestConversionService_Convert_PassesParserOptions(t *testing.T) {
	f := newConvFixture()
	req := testRequest()
	req.Parser = domain.ParserOptions{CropInk: true, CropOffset: 25, TemplateDPI: 192}

	result, err := f.service.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.Parser, f.parser.opts)
	assert.True(t, result.Cropped)
}

func TestConversionService_Convert_Compression(t *testing.T) {
	f := newConvFixture()
	req := testRequest()
	req.Compression = domain.CompressionLZ4

	_, err := f.service.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []domain.Compression{domain.CompressionLZ4}, f.encoders.requested)
	assert.Equal(t, "ink:model-1:lz4", string(f.sink.files["iot.uim"]))
}

func TestConversionService_Convert_Overlay(t *testing.T) {
	f := newConvFixture()
	req := testRequest()
	req.OverlayInk = true
	req.Parser.TemplateDPI = 192

	_, err := f.service.Convert(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, f.templates.overlaid)
	assert.InDelta(t, 2.0, f.templates.overlayScale, 1e-9)
}

func TestConversionService_Convert_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.ConversionRequest)
		want   error
	}{
		{
			name:   "missing input",
			modify: func(r *domain.ConversionRequest) { r.Input = "" },
			want:   domain.ErrInvalidInput,
		},
		{
			name:   "missing ink output",
			modify: func(r *domain.ConversionRequest) { r.Outputs.Ink = "" },
			want:   domain.ErrInvalidInput,
		},
		{
			name:   "unknown compression",
			modify: func(r *domain.ConversionRequest) { r.Compression = "brotli" },
			want:   domain.ErrUnsupportedType,
		},
		{
			name:   "empty layout with csv",
			modify: func(r *domain.ConversionRequest) { r.CSVLayout = nil },
			want:   domain.ErrEmptyLayout,
		},
		{
			name: "unknown attribute",
			modify: func(r *domain.ConversionRequest) {
				r.CSVLayout = []domain.StrokeAttribute{"tilt"}
			},
			want: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConvFixture()
			req := testRequest()
			tt.modify(&req)

			_, err := f.service.Convert(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.sink.files)
			assert.Empty(t, f.parser.calls)
		})
	}
}

func TestConversionService_Convert_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(*convFixture)
		prefix  string
		written []string
	}{
		{
			name:   "parse",
			setup:  func(f *convFixture) { f.parser.parseErr = boom },
			prefix: "parse ink: ",
		},
		{
			name:   "template",
			setup:  func(f *convFixture) { f.parser.templateErr = boom },
			prefix: "parse template: ",
		},
		{
			name:   "encode",
			setup:  func(f *convFixture) { f.encoders.encodeErr = boom },
			prefix: "encode ink: ",
		},
		{
			name:    "write template",
			setup:   func(f *convFixture) { f.templates.writeErr = boom },
			prefix:  "write template: ",
			written: []string{"iot.uim"},
		},
		{
			name:    "csv",
			setup:   func(f *convFixture) { f.csv.err = boom },
			prefix:  "export csv: ",
			written: []string{"iot.uim", "template.png"},
		},
		{
			name:    "json",
			setup:   func(f *convFixture) { f.json.err = boom },
			prefix:  "export json: ",
			written: []string{"iot.uim", "template.png", "iot.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConvFixture()
			tt.setup(f)

			result, err := f.service.Convert(context.Background(), testRequest())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.prefix)

			var written []string
			for _, p := range domain.OutputsFromSettings(domain.DefaultAppSettings()).All() {
				if _, ok := f.sink.files[p]; ok {
					written = append(written, p)
				}
			}
			assert.Equal(t, tt.written, written)
		})
	}
}

func TestConversionService_Convert_SinkFailure(t *testing.T) {
	f := newConvFixture()
	f.sink.failOn = "iot.uim"

	_, err := f.service.Convert(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write ink: disk full")
	assert.Empty(t, f.sink.files)
}

func TestConversionService_Convert_ParserConfigureError(t *testing.T) {
	f := newConvFixture()
	f.parser.configErr = domain.ErrInvalidInput

	_, err := f.service.Convert(context.Background(), testRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, []string{"configure"}, f.parser.calls)
}

func TestConversionService_Convert_MissingExporter(t *testing.T) {
	f := newConvFixture()
	f.service.exporters = &convMockRegistry{exporters: map[string]driven.ModelExporter{}}

	_, err := f.service.Convert(context.Background(), testRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConversionService_Convert_NotConfigured(t *testing.T) {
	service := NewConversionService(nil, nil, nil, nil, nil)

	_, err := service.Convert(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestConversionService_Convert_RecordsSuccess(t *testing.T) {
	f := newConvFixture()

	result, err := f.service.Convert(context.Background(), testRequest())
	require.NoError(t, err)

	rec, err := f.history.Get(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConversionSucceeded, rec.Status)
	assert.Empty(t, rec.Error)
	assert.Equal(t, "ink/iot/HelloInk.paper", rec.Input)
	assert.Equal(t, "digest-of-ink/iot/HelloInk.paper", rec.InputDigest)
	assert.Equal(t, 2, rec.StrokeCount)
	assert.Equal(t, 3, rec.PointCount)
	assert.Equal(t, result.Duration, rec.Duration())
}

func TestConversionService_Convert_RecordsFailure(t *testing.T) {
	f := newConvFixture()
	f.parser.parseErr = domain.ErrInvalidPaper

	_, err := f.service.Convert(context.Background(), testRequest())
	require.Error(t, err)

	records, err := f.history.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ConversionFailed, records[0].Status)
	assert.Contains(t, records[0].Error, "invalid paper file")
	assert.Zero(t, records[0].StrokeCount)
}

func TestConversionService_Convert_DigestFailureStillRecords(t *testing.T) {
	f := newConvFixture()
	f.service.digester = &convMockDigester{err: errors.New("no such file")}

	_, err := f.service.Convert(context.Background(), testRequest())
	require.NoError(t, err)

	records, err := f.history.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].InputDigest)
}

func TestConversionService_Convert_WithoutHistory(t *testing.T) {
	f := newConvFixture()
	f.service.history = nil

	_, err := f.service.Convert(context.Background(), testRequest())
	require.NoError(t, err)

	records, err := f.history.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestConversionService_Convert_Concurrent(t *testing.T) {
	f := newConvFixture()
	sink := &lockedSink{inner: f.sink}
	f.service.sink = sink

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := testRequest()
			req.Outputs.CSV = ""
			req.Outputs.JSON = ""
			_, err := f.service.Convert(context.Background(), req)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.parser.calls, 24)
	for i := 0; i < len(f.parser.calls); i += 3 {
		assert.Equal(t, []string{"configure", "parse", "template"}, f.parser.calls[i:i+3])
	}
}

type lockedSink struct {
	mu    sync.Mutex
	inner driven.OutputSink
}

func (s *lockedSink) Write(ctx context.Context, path string, write func(io.Writer) error) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Write(ctx, path, write)
}

func TestRequestForInput(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.Export.JSON = false

	req := RequestForInput("captures/Letter.paper", "out", s)

	assert.Equal(t, "captures/Letter.paper", req.Input)
	assert.Equal(t, domain.OutputPaths{
		Ink:      "out/Letter.uim",
		Template: "out/Letter.png",
		CSV:      "out/Letter.csv",
	}, req.Outputs)
	assert.Equal(t, domain.CompressionNone, req.Compression)
	assert.Equal(t, domain.DefaultCSVLayout(), req.CSVLayout)
}

func TestTemplateScale(t *testing.T) {
	assert.InDelta(t, 1.0, templateScale(96), 1e-9)
	assert.InDelta(t, 3.125, templateScale(300), 1e-9)
	assert.InDelta(t, 1.0, templateScale(0), 1e-9)
}
