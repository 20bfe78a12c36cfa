package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
	"github.com/custodia-labs/paperink/internal/logger"
)

// Ensure InspectService implements the interface.
var _ driving.InspectService = (*InspectService)(nil)

// InspectService reads ink containers back for inspection.
type InspectService struct {
	decoder driven.InkDecoder
}

// NewInspectService creates a new inspect service.
func NewInspectService(decoder driven.InkDecoder) *InspectService {
	return &InspectService{decoder: decoder}
}

// Inspect decodes the ink container at path and summarises it.
func (s *InspectService) Inspect(ctx context.Context, path string) (*domain.InkSummary, error) {
	data, model, err := s.load(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks, err := s.decoder.Chunks(data)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	channels := make([]domain.ChannelType, 0, len(model.Input.Channels))
	for _, ch := range model.Input.Channels {
		channels = append(channels, ch.Type)
	}

	return &domain.InkSummary{
		Path:        path,
		Version:     model.Version,
		ModelID:     model.ID,
		Device:      model.Input.Device,
		StrokeCount: len(model.Strokes),
		PointCount:  model.PointCount(),
		Bounds:      model.Bounds,
		Properties:  model.Properties,
		Channels:    channels,
		Chunks:      chunks,
	}, nil
}

// Load decodes the ink container at path into a model.
func (s *InspectService) Load(ctx context.Context, path string) (*domain.InkModel, error) {
	_, model, err := s.load(ctx, path)
	return model, err
}

func (s *InspectService) load(ctx context.Context, path string) ([]byte, *domain.InkModel, error) {
	if s.decoder == nil {
		return nil, nil, fmt.Errorf("ink decoder not configured")
	}
	if path == "" {
		return nil, nil, fmt.Errorf("ink file path is required: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	done := logger.Step("read " + path)
	data, err := os.ReadFile(path)
	done()
	if err != nil {
		return nil, nil, fmt.Errorf("read ink: %w", err)
	}

	done = logger.Step("decode ink")
	model, err := s.decoder.Decode(data)
	done()
	if err != nil {
		return nil, nil, fmt.Errorf("decode ink: %w", err)
	}
	return data, model, nil
}
