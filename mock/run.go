package mock

import (
	"context"

	"github.com/fwojciec/deadlinks"
)

var _ deadlinks.RunService = (*RunService)(nil)

// RunService is a mock implementation of deadlinks.RunService.
type RunService struct {
	CreateRunFn       func(ctx context.Context, run *deadlinks.Run) error
	AddBrokenLinkFn   func(ctx context.Context, runID string, link deadlinks.BrokenLink) error
	FinishRunFn       func(ctx context.Context, report *deadlinks.Report) error
	FindRunsFn        func(ctx context.Context, filter deadlinks.RunFilter) ([]*deadlinks.Run, error)
	FindBrokenLinksFn func(ctx context.Context, runID string) ([]deadlinks.BrokenLink, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *deadlinks.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) AddBrokenLink(ctx context.Context, runID string, link deadlinks.BrokenLink) error {
	return s.AddBrokenLinkFn(ctx, runID, link)
}

func (s *RunService) FinishRun(ctx context.Context, report *deadlinks.Report) error {
	return s.FinishRunFn(ctx, report)
}

func (s *RunService) FindRuns(ctx context.Context, filter deadlinks.RunFilter) ([]*deadlinks.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindBrokenLinks(ctx context.Context, runID string) ([]deadlinks.BrokenLink, error) {
	return s.FindBrokenLinksFn(ctx, runID)
}
