package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driving"
	"github.com/custodia-labs/paperink/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// WatchService converts paper captures as they appear in a directory.
type WatchService struct {
	converter driving.ConversionService
	settings  driving.SettingsService

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	// pending holds files with a deferred conversion scheduled.
	pending map[string]bool
}

// NewWatchService creates a watch service. Settings are read once per
// Watch call.
func NewWatchService(converter driving.ConversionService, settings driving.SettingsService) *WatchService {
	return &WatchService{
		converter: converter,
		settings:  settings,
		limiters:  make(map[string]*rate.Limiter),
		pending:   make(map[string]bool),
	}
}

// Watch converts new or changed captures in dir into outDir until ctx is
// cancelled. The returned channel is closed when watching stops.
func (s *WatchService) Watch(ctx context.Context, dir, outDir string) (<-chan driving.WatchEvent, error) {
	if s.converter == nil || s.settings == nil {
		return nil, fmt.Errorf("watch: conversion service not configured")
	}
	if outDir == "" {
		outDir = dir
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("watch: load settings: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("watching %s for %s files (min interval %s)",
		dir, domain.PaperExtension, settings.Watch.MinInterval)

	events := make(chan driving.WatchEvent)
	go func() {
		defer close(events)
		defer watcher.Close()
		defer s.reset()

		// stop releases deferred conversions once the loop exits.
		stop := make(chan struct{})
		defer close(stop)
		deferred := make(chan string)

		convert := func(path string) bool {
			result, err := s.converter.Convert(ctx, RequestForInput(path, outDir, *settings))
			if err != nil {
				// A capture still being written fails to parse; let the
				// next write retry immediately.
				s.forget(path)
			}
			select {
			case events <- driving.WatchEvent{Input: path, Result: result, Err: err}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			case path := <-deferred:
				s.done(path)
				if !convert(path) {
					return
				}
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				path := handleFsEvent(ev)
				if path == "" {
					continue
				}
				delay, ok := s.schedule(path, settings.Watch.MinInterval)
				if !ok {
					logger.Debug("conversion of %s already scheduled", path)
					continue
				}
				if delay > 0 {
					logger.Debug("throttled %s, converting in %s", path, delay)
					time.AfterFunc(delay, func() {
						select {
						case deferred <- path:
						case <-stop:
						}
					})
					continue
				}
				if !convert(path) {
					return
				}
			}
		}
	}()

	return events, nil
}

// schedule reserves a conversion of path. It returns how long to wait
// before converting, or false when a deferred conversion of path is
// already scheduled. At most one conversion per minInterval runs for each
// file, and a change inside the interval is converted once it ends.
func (s *WatchService) schedule(path string, minInterval time.Duration) (time.Duration, bool) {
	if minInterval <= 0 {
		return 0, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[path] {
		return 0, false
	}
	l, ok := s.limiters[path]
	if !ok {
		l = rate.NewLimiter(rate.Every(minInterval), 1)
		s.limiters[path] = l
	}
	delay := l.Reserve().Delay()
	if delay > 0 {
		s.pending[path] = true
	}
	return delay, true
}

// done clears the deferred conversion mark of path.
func (s *WatchService) done(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, path)
}

// reset drops all throttling state.
func (s *WatchService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.limiters)
	clear(s.pending)
}

func (s *WatchService) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, path)
}

// handleFsEvent returns the capture path to convert for ev, or "" when the
// event is ignored.
func handleFsEvent(ev fsnotify.Event) string {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return ""
	}
	if isHidden(ev.Name) {
		return ""
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), domain.PaperExtension) {
		return ""
	}
	return ev.Name
}

// isHidden reports whether the file name starts with a dot.
func isHidden(path string) bool {
	name := filepath.Base(path)
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
