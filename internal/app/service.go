// Package app wires document intake, extraction and export behind the
// operations every user-facing surface offers.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/a3tai/aditamento-extractor/internal/config"
	"github.com/a3tai/aditamento-extractor/internal/export"
	"github.com/a3tai/aditamento-extractor/internal/report"
	"github.com/a3tai/aditamento-extractor/internal/source"
)

// Service handles batch processing by orchestrating the pipeline components
type Service struct {
	maxFileSize int64
	fetcher     *source.Fetcher
	local       *source.LocalReader
	resolver    *source.Resolver
	assembler   *report.Assembler
	logger      *slog.Logger
}

// NewService creates a service from configuration
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fetcher, err := source.NewFetcher(cfg.BaseURL, cfg.MaxFileSize,
		source.WithTimeout(cfg.FetchTimeout),
		source.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	local, err := source.NewLocalReader(cfg.PDFDirectory, cfg.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create local reader: %w", err)
	}

	return NewServiceWith(cfg.MaxFileSize, fetcher, local,
		report.NewDefaultAssembler(cfg.MaxFileSize, logger), logger), nil
}

// NewServiceWith creates a service from already built components
func NewServiceWith(maxFileSize int64, fetcher *source.Fetcher, local *source.LocalReader,
	assembler *report.Assembler, logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		maxFileSize: maxFileSize,
		fetcher:     fetcher,
		local:       local,
		resolver:    source.NewResolver(fetcher, local, logger),
		assembler:   assembler,
		logger:      logger,
	}
}

// Process resolves every document of batch and builds the report.
// Documents are handled one at a time in batch order.
func (s *Service) Process(ctx context.Context, batch source.Batch) *report.Report {
	mode := "none"
	if batch != nil {
		mode = batch.Mode()
	}

	outcomes := s.resolver.Resolve(ctx, batch)
	rep := s.assembler.Build(ctx, outcomes)

	s.logger.Info("service.process.done",
		"report_id", rep.ID.String(),
		"mode", mode,
		"rows", rep.Len(),
		"failures", rep.Failures.Count(),
	)
	return rep
}

// Export serializes a report in the given format
func (s *Service) Export(rep *report.Report, format export.Format) ([]byte, error) {
	return export.Render(rep, format)
}

// RemoteNames returns the allow-listed remote documents
func (s *Service) RemoteNames() []string {
	if s.fetcher == nil {
		return nil
	}
	return s.fetcher.Available()
}

// BaseURL returns the remote host prefix, or "" without a fetcher
func (s *Service) BaseURL() string {
	if s.fetcher == nil {
		return ""
	}
	return s.fetcher.BaseURL()
}

// Directory returns the configured local PDF directory
func (s *Service) Directory() string {
	if s.local == nil {
		return ""
	}
	return s.local.Directory()
}

// SearchDirectory lists PDFs under the configured directory
func (s *Service) SearchDirectory(query string) ([]source.FileInfo, error) {
	if s.local == nil {
		return nil, fmt.Errorf("local directory is not configured")
	}
	return s.local.Search(query)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
