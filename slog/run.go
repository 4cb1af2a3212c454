package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deadlinks"
)

// Ensure LoggingRunService implements deadlinks.RunService.
var _ deadlinks.RunService = (*LoggingRunService)(nil)

// LoggingRunService wraps a RunService with debug logging.
type LoggingRunService struct {
	next   deadlinks.RunService
	logger *slog.Logger
}

// NewLoggingRunService creates a new LoggingRunService.
func NewLoggingRunService(next deadlinks.RunService, logger *slog.Logger) *LoggingRunService {
	return &LoggingRunService{next: next, logger: logger}
}

func (s *LoggingRunService) CreateRun(ctx context.Context, run *deadlinks.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create run",
			"run", run.ID,
			"seed", run.Seed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

func (s *LoggingRunService) AddBrokenLink(ctx context.Context, runID string, link deadlinks.BrokenLink) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("add broken link",
			"run", runID,
			"origin", link.Origin,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddBrokenLink(ctx, runID, link)
}

func (s *LoggingRunService) FinishRun(ctx context.Context, report *deadlinks.Report) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("finish run",
			"run", report.RunID,
			"broken", len(report.Broken),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FinishRun(ctx, report)
}

func (s *LoggingRunService) FindRuns(ctx context.Context, filter deadlinks.RunFilter) (runs []*deadlinks.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find runs",
			"count", len(runs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuns(ctx, filter)
}

func (s *LoggingRunService) FindBrokenLinks(ctx context.Context, runID string) (links []deadlinks.BrokenLink, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find broken links",
			"run", runID,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindBrokenLinks(ctx, runID)
}
