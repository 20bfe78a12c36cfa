package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
)

// MockConversionService records requests and returns a fixed result.
type MockConversionService struct {
	Requests []domain.ConversionRequest
	Err      error
}

func (m *MockConversionService) Convert(
	_ context.Context, req domain.ConversionRequest,
) (*domain.ConversionResult, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.ConversionResult{
		ID:             "rec-1",
		Input:          req.Input,
		Outputs:        req.Outputs,
		ModelID:        "model-1",
		StrokeCount:    3,
		PointCount:     180,
		InkBytes:       2048,
		TemplateWidth:  560,
		TemplateHeight: 794,
		Cropped:        req.Parser.CropInk,
		Duration:       12 * time.Millisecond,
	}, nil
}

// MockInspectService returns a fixed summary.
type MockInspectService struct {
	Paths []string
	Err   error
}

func (m *MockInspectService) Inspect(_ context.Context, path string) (*domain.InkSummary, error) {
	m.Paths = append(m.Paths, path)
	if m.Err != nil {
		return nil, m.Err
	}
	return &domain.InkSummary{
		Path:        path,
		Version:     "3.1.0",
		ModelID:     "model-1",
		Device:      domain.Device{Name: "Slate"},
		StrokeCount: 3,
		PointCount:  180,
		Bounds:      domain.Rect{X: 1, Y: 2, Width: 300, Height: 40},
		Properties:  []domain.Property{{Name: domain.PropertyDeviceName, Value: "Slate"}},
		Channels:    []domain.ChannelType{domain.ChannelX, domain.ChannelPressure},
		Chunks:      []domain.ChunkInfo{{ID: "INKD", Size: 900, Compression: domain.CompressionLZ4}},
	}, nil
}

func (m *MockInspectService) Load(_ context.Context, _ string) (*domain.InkModel, error) {
	return nil, domain.ErrNotImplemented
}

// MockSettingsService keeps settings in memory.
type MockSettingsService struct {
	Settings domain.AppSettings
	GetErr   error
	SetCalls [][2]string
	Resets   []string
}

func newMockSettingsService() *MockSettingsService {
	return &MockSettingsService{Settings: domain.DefaultAppSettings()}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s := m.Settings
	s.Export.CSVLayout = append([]domain.StrokeAttribute(nil), m.Settings.Export.CSVLayout...)
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = *settings
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if key == "no.such.key" {
		return fmt.Errorf("setting %q: %w", key, domain.ErrNotFound)
	}
	m.SetCalls = append(m.SetCalls, [2]string{key, value})
	return nil
}

func (m *MockSettingsService) Reset(key string) error {
	m.Resets = append(m.Resets, key)
	return nil
}

func (m *MockSettingsService) Keys() []string {
	return []string{"parser.cropping_ink", "encoder.compression"}
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// MockHistoryService serves records from memory.
type MockHistoryService struct {
	Records []domain.ConversionRecord
	Limits  []int
}

func (m *MockHistoryService) List(_ context.Context, limit int) ([]domain.ConversionRecord, error) {
	m.Limits = append(m.Limits, limit)
	return m.Records, nil
}

func (m *MockHistoryService) Get(_ context.Context, id string) (*domain.ConversionRecord, error) {
	for i := range m.Records {
		if m.Records[i].ID == id {
			return &m.Records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockHistoryService) Clear(_ context.Context) (int, error) {
	n := len(m.Records)
	m.Records = nil
	return n, nil
}

// MockWatcher emits the configured events and closes the channel.
type MockWatcher struct {
	Events []driving.WatchEvent
	Dir    string
	OutDir string
	Err    error
}

func (m *MockWatcher) Watch(_ context.Context, dir, outDir string) (<-chan driving.WatchEvent, error) {
	m.Dir, m.OutDir = dir, outDir
	if m.Err != nil {
		return nil, m.Err
	}
	ch := make(chan driving.WatchEvent, len(m.Events))
	for _, ev := range m.Events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	conversion *MockConversionService
	inspect    *MockInspectService
	settings   *MockSettingsService
	history    *MockHistoryService
	watcher    *MockWatcher
}

// setupTestServices installs mock services and returns them with a
// cleanup function restoring the previous ones.
func setupTestServices() (*testServices, func()) {
	oldConversion := conversionService
	oldInspect := inspectService
	oldSettings := settingsService
	oldHistory := historyService
	oldWatch := watchService

	ts := &testServices{
		conversion: &MockConversionService{},
		inspect:    &MockInspectService{},
		settings:   newMockSettingsService(),
		history:    &MockHistoryService{},
		watcher:    &MockWatcher{},
	}
	conversionService = ts.conversion
	inspectService = ts.inspect
	settingsService = ts.settings
	historyService = ts.history
	watchService = ts.watcher

	return ts, func() {
		conversionService = oldConversion
		inspectService = oldInspect
		settingsService = oldSettings
		historyService = oldHistory
		watchService = oldWatch
	}
}

// resetFlags restores every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "paperink", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"convert", "inspect", "watch", "history", "settings", "sample", "mcp", "tui", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestRootCmd_InitializerReceivesFlags(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	var got GlobalOptions
	SetInitializer(func(opts GlobalOptions) error {
		got = opts
		return nil
	})
	defer SetInitializer(nil)

	_, err := execute(t, "--config-dir", t.TempDir(), "-v", "settings", "keys")

	require.NoError(t, err)
	assert.True(t, got.Verbose)
	assert.NotEmpty(t, got.ConfigDir)
}

func TestRootCmd_InitializerError(t *testing.T) {
	SetInitializer(func(GlobalOptions) error {
		return errors.New("config unreadable")
	})
	defer SetInitializer(nil)

	_, err := execute(t, "settings", "keys")

	assert.EqualError(t, err, "config unreadable")
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("v1.2.3")
	assert.Equal(t, "v1.2.3", version)
}
