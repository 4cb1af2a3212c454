package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/deadlinks"
	"github.com/fwojciec/deadlinks/mock"
	dlslog "github.com/fwojciec/deadlinks/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRunService(t *testing.T) {
	t.Parallel()

	t.Run("logs run creation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RunService{
			CreateRunFn: func(context.Context, *deadlinks.Run) error { return nil },
		}

		s := dlslog.NewLoggingRunService(inner, debugLogger(&buf))
		err := s.CreateRun(context.Background(), &deadlinks.Run{ID: "r1", Seed: "https://ex.test/"})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "msg=\"create run\"")
		assert.Contains(t, buf.String(), "run=r1")
	})

	t.Run("logs finding errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RunService{
			AddBrokenLinkFn: func(context.Context, string, deadlinks.BrokenLink) error {
				return errors.New("locked")
			},
		}

		s := dlslog.NewLoggingRunService(inner, debugLogger(&buf))
		err := s.AddBrokenLink(context.Background(), "r1", deadlinks.BrokenLink{Origin: "https://ex.test/"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=locked")
	})

	t.Run("logs result counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RunService{
			FindRunsFn: func(context.Context, deadlinks.RunFilter) ([]*deadlinks.Run, error) {
				return []*deadlinks.Run{{ID: "a"}, {ID: "b"}}, nil
			},
			FindBrokenLinksFn: func(context.Context, string) ([]deadlinks.BrokenLink, error) {
				return []deadlinks.BrokenLink{{}}, nil
			},
			FinishRunFn: func(context.Context, *deadlinks.Report) error { return nil },
		}

		s := dlslog.NewLoggingRunService(inner, debugLogger(&buf))
		runs, err := s.FindRuns(context.Background(), deadlinks.RunFilter{})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
		_, err = s.FindBrokenLinks(context.Background(), "a")
		require.NoError(t, err)
		require.NoError(t, s.FinishRun(context.Background(), &deadlinks.Report{RunID: "a"}))

		output := buf.String()
		assert.Contains(t, output, "msg=\"find runs\" count=2")
		assert.Contains(t, output, "msg=\"find broken links\" run=a count=1")
		assert.Contains(t, output, "msg=\"finish run\" run=a broken=0")
	})
}
