// Package infrastructure assembles the systems a conversion run needs from the
// application configuration: logging, filesystem access, HTTP retrieval,
// metrics and the converter that ties them together.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/mediaconv/internal/config"
	"github.com/JaimeStill/mediaconv/internal/metrics"
	"github.com/JaimeStill/mediaconv/pkg/convert"
	"github.com/JaimeStill/mediaconv/pkg/detect"
	"github.com/JaimeStill/mediaconv/pkg/fetch"
	"github.com/JaimeStill/mediaconv/pkg/inspect"
	"github.com/JaimeStill/mediaconv/pkg/logging"
	"github.com/JaimeStill/mediaconv/pkg/storage"
)

// Infrastructure holds the initialized systems.
type Infrastructure struct {
	Logger    *slog.Logger
	Storage   *storage.Filesystem
	Fetcher   *fetch.Client
	Metrics   *metrics.Recorder
	Converter *convert.Converter
}

// New creates an Infrastructure from a finalized configuration.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, logging.New(&cfg.Logging))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	fetcher := fetch.New(&cfg.Fetch, nil, logger)
	recorder := metrics.New(&cfg.Metrics, logger)

	conv, err := convert.New(&cfg.Convert, convert.Deps{
		Sniffer:    detect.Content{},
		Lookup:     detect.Extension{},
		Fetcher:    fetcher,
		Filesystem: store,
		Inspector:  inspect.Inspector{},
		Recorder:   recorder,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("converter init failed: %w", err)
	}

	return &Infrastructure{
		Logger:    logger,
		Storage:   store,
		Fetcher:   fetcher,
		Metrics:   recorder,
		Converter: conv,
	}, nil
}
