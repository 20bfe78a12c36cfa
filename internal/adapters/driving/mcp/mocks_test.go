package mcp

import (
	"context"

	"github.com/custodia-labs/paperink/internal/core/domain"
)

// mockConversionService is a mock implementation of driving.ConversionService.
type mockConversionService struct {
	requests []domain.ConversionRequest
	err      error
}

func (m *mockConversionService) Convert(
	_ context.Context,
	req domain.ConversionRequest,
) (*domain.ConversionResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ConversionResult{
		ID:          "rec-1",
		Input:       req.Input,
		Outputs:     req.Outputs,
		ModelID:     "model-1",
		StrokeCount: 3,
		PointCount:  180,
		InkBytes:    4096,
		Cropped:     req.Parser.CropInk,
	}, nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	err      error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }
func (m *mockSettingsService) Set(_, _ string) error            { return m.err }
func (m *mockSettingsService) Reset(_ string) error             { return m.err }
func (m *mockSettingsService) Keys() []string                   { return nil }
func (m *mockSettingsService) GetDefaults() domain.AppSettings  { return domain.DefaultAppSettings() }

// mockInspectService is a mock implementation of driving.InspectService.
type mockInspectService struct {
	summary *domain.InkSummary
	err     error
}

func (m *mockInspectService) Inspect(_ context.Context, _ string) (*domain.InkSummary, error) {
	return m.summary, m.err
}

func (m *mockInspectService) Load(_ context.Context, _ string) (*domain.InkModel, error) {
	return nil, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	records []domain.ConversionRecord
	err     error
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.ConversionRecord, error) {
	return m.records, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.ConversionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Clear(_ context.Context) (int, error) {
	return len(m.records), m.err
}

func validPorts() *Ports {
	return &Ports{
		Conversion: &mockConversionService{},
		Settings:   newMockSettings(),
		Inspect:    &mockInspectService{},
	}
}
