// Package probe implements a smoke test against a running lightswitch service.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/okian/lightswitch/pkg/logger"
)

// Run executes every probe step against cfg.BaseURL. The returned report is
// always non-nil; the error is non-nil when any check failed.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	report := &Report{StartTime: time.Now()}
	log := logger.Named("probe")

	log.Info(ctx, "starting lightswitch probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("restart", cfg.Restart),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	rec := &recorder{}

	// Step 1: Endpoint directory and every parameterless GET route
	endpoints := checkEndpoints(ctx, client, rec)
	checkGetRoutes(ctx, client, endpoints, rec)

	// Step 2: List and download every file
	files := listFiles(ctx, client, rec)
	report.FilesListed = len(files)
	n, size, err := downloadFiles(ctx, client, files, cfg.Workers, cfg.Verbose, rec)
	report.FilesDownloaded, report.BytesDownloaded = n, size
	if err != nil {
		log.Warn(ctx, "downloads failed", logger.Error(err))
	}

	// Step 3: Download error responses
	checkDownloadErrors(ctx, client, rec)

	// Step 4: Restart, last since the service goes away
	if cfg.Restart {
		wait := cfg.RestartWait
		if wait <= 0 {
			wait = DefaultRestartWait
		}
		checkRestart(ctx, client, wait, rec)
	}

	report.Checks = rec.checks
	report.Duration = time.Since(report.StartTime)
	displayReport(ctx, log, report, cfg.Verbose)

	if failed := report.Failed(); len(failed) > 0 {
		errs := make([]error, 0, len(failed))
		for _, c := range failed {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, c.Err))
		}
		return report, fmt.Errorf("%d of %d checks failed: %w", len(failed), len(report.Checks), errors.Join(errs...))
	}
	return report, nil
}

// displayReport logs each failed check and the final summary.
func displayReport(ctx context.Context, log logger.Logger, r *Report, verbose bool) {
	for _, c := range r.Checks {
		switch {
		case !c.Passed:
			log.Error(ctx, "check failed", logger.String("check", c.Name), logger.String("detail", c.Detail))
		case verbose:
			log.Info(ctx, "check passed", logger.String("check", c.Name), logger.Duration("duration", c.Duration))
		}
	}

	log.Info(ctx, "probe summary",
		logger.Int("checks", len(r.Checks)),
		logger.Int("failed", len(r.Failed())),
		logger.Int("filesListed", r.FilesListed),
		logger.Int("filesDownloaded", r.FilesDownloaded),
		logger.String("downloaded", humanize.IBytes(r.BytesDownloaded)),
		logger.String("duration", r.Duration.Round(time.Millisecond).String()),
		logger.String("started", humanize.Time(r.StartTime)),
	)
}
