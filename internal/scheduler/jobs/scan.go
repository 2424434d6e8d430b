package jobs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/pipeline"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// ScanJob runs the full screening pipeline after each trading day and
// persists the resulting signals.
// SSOT: the daily scan schedule lives only in this job.
type ScanJob struct {
	runner     *pipeline.Runner
	repository contracts.SignalRepository
	exportDir  string
	logger     *logger.Logger
}

// NewScanJob creates the daily scan job. The repository may be nil
// when no database is configured; the CSV export still runs.
func NewScanJob(runner *pipeline.Runner, repo contracts.SignalRepository, exportDir string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		runner:     runner,
		repository: repo,
		exportDir:  exportDir,
		logger:     log.WithComponent("job.scan"),
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "daily_scan"
}

// Schedule runs weekdays at 15:30, after the mainland close
func (j *ScanJob) Schedule() string {
	return "0 30 15 * * 1-5"
}

// Run executes one scan, stores the signals and writes the CSV export
func (j *ScanJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled scan")

	result, err := j.runner.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"universe":    result.Universe.Count(),
		"signals":     len(result.Signals),
		"prefiltered": result.Prefiltered,
		"errors":      result.Errors,
		"duration":    result.Duration,
	}).Info("Scan completed")

	if j.repository != nil {
		if err := j.repository.SaveSignals(ctx, result.Date, result.Signals); err != nil {
			return fmt.Errorf("failed to persist signals: %w", err)
		}
	}

	if j.exportDir != "" {
		path := filepath.Join(j.exportDir, fmt.Sprintf("signals_%s.csv", result.Date.Format("2006-01-02")))
		if err := pipeline.ExportCSV(path, result.Signals); err != nil {
			return fmt.Errorf("failed to export signals: %w", err)
		}
		j.logger.WithField("path", path).Info("Signals exported")
	}

	return nil
}
