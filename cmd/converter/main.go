package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/mcmmocredits/internal/config"
	"github.com/fastprodman/mcmmocredits/internal/converter"
	"github.com/fastprodman/mcmmocredits/internal/infra/logging"
	"github.com/fastprodman/mcmmocredits/internal/storage"
	"github.com/fastprodman/mcmmocredits/pkg/envconf"
)

var errUnknownSource = errors.New("unknown converter source")

type converterConfig struct {
	Logging     logging.Config
	Converter   config.ConverterConfig
	Destination config.StorageConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		slog.Error("conversion failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := new(converterConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupJSON(cfg.Logging.Level)

	var loader converter.Loader

	switch cfg.Converter.From {
	case config.ConvertFromCSV:
		loader = converter.CSVLoader{Path: cfg.Converter.CSVPath}
	case config.ConvertFromStorage:
		var src config.StorageConfig

		err = envconf.LoadPrefixed(&src, "SOURCE_")
		if err != nil {
			return fmt.Errorf("load source config: %w", err)
		}

		err = converter.CheckDistinct(src, cfg.Destination)
		if err != nil {
			return err
		}

		source, err := storage.Open(ctx, src)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer source.Disable()

		loader = converter.StorageLoader{Source: source}
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, cfg.Converter.From)
	}

	dst, err := storage.Open(ctx, cfg.Destination)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dst.Disable()

	n, err := converter.New(loader, dst).Run(ctx)
	if err != nil {
		return fmt.Errorf("convert into %s: %w", cfg.Destination.Describe(), err)
	}

	slog.Info("conversion finished", "users", n, "destination", cfg.Destination.Describe())

	return nil
}
