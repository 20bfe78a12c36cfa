// Command paperink converts smart pad paper captures into digital ink.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/custodia-labs/paperink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/paperink/internal/adapters/driven/digest"
	"github.com/custodia-labs/paperink/internal/adapters/driven/output"
	"github.com/custodia-labs/paperink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/paperink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/paperink/internal/adapters/driving/cli"
	"github.com/custodia-labs/paperink/internal/codec/uim"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/core/services"
	"github.com/custodia-labs/paperink/internal/exporters"
	"github.com/custodia-labs/paperink/internal/exporters/png"
	"github.com/custodia-labs/paperink/internal/logger"
	"github.com/custodia-labs/paperink/internal/parsers/paper"
)

func main() {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
		cli.SetVersion(info.Main.Version)
	}

	var closers []io.Closer
	cli.SetInitializer(func(opts cli.GlobalOptions) error {
		closer, err := wire(opts)
		if closer != nil {
			closers = append(closers, closer)
		}
		return err
	})

	err := cli.Execute()
	for _, c := range closers {
		if cerr := c.Close(); cerr != nil {
			logger.Warn("close: %v", cerr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the services and hands them to the CLI. The returned closer,
// if any, releases the history database.
func wire(opts cli.GlobalOptions) (io.Closer, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var (
		historyStore driven.HistoryStore
		closer       io.Closer
	)
	if settings.History.Enabled {
		dataDir := ""
		if opts.ConfigDir != "" {
			dataDir = filepath.Join(opts.ConfigDir, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		logger.Debug("history database: %s", store.Path())
		historyStore = store.HistoryStore()
		closer = store
	} else {
		historyStore = memory.NewHistoryStore()
	}

	convOpts := []services.ConversionOption{}
	if settings.History.Enabled {
		convOpts = append(convOpts, services.WithHistory(historyStore, digest.NewBlake3()))
	}
	conversionService := services.NewConversionService(
		paper.New(),
		uim.EncoderFactory{},
		exporters.NewDefaultRegistry(),
		png.New(),
		output.NewAtomicSink(),
		convOpts...,
	)

	cli.SetSettingsService(settingsService)
	cli.SetConversionService(conversionService)
	cli.SetInspectService(services.NewInspectService(uim.NewDecoder()))
	cli.SetHistoryService(services.NewHistoryService(historyStore))
	cli.SetWatchService(services.NewWatchService(conversionService, settingsService))
	return closer, nil
}
