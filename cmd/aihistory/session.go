package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fyrsmithlabs/aihistory/internal/config"
	"github.com/fyrsmithlabs/aihistory/internal/extraction"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

// session is the configuration, logger and metrics for one command run.
type session struct {
	cfg      *config.Config
	logger   *logging.Logger
	registry *prometheus.Registry
	metrics  *extraction.Metrics
}

// open loads configuration and builds the logger. --verbose raises the
// log level to debug unless trace is already configured.
func (o *rootOptions) open() (*session, error) {
	cfg, err := config.LoadWithFile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.verbose && !strings.EqualFold(cfg.Logging.Level, "trace") {
		cfg.Logging.Level = "debug"
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(lc)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	return &session{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  extraction.NewMetrics(registry),
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// analyzer builds the named analyzer from the session configuration. The
// name is resolved first so an unknown analyzer fails before any pattern
// file is read. The analyzer logs through the logger stored in ctx.
func (s *session) analyzer(name string) (extraction.Analyzer, error) {
	if _, err := extraction.CanonicalAnalyzerName(name); err != nil {
		return nil, err
	}
	cfg, err := s.cfg.ExtractionConfig()
	if err != nil {
		return nil, err
	}
	cfg.Metrics = s.metrics
	return extraction.NewAnalyzer(name, cfg)
}

// writeMetrics writes the run's counters in the Prometheus text format.
func (s *session) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
