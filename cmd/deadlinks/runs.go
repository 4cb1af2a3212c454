package main

import (
	"fmt"

	"github.com/fwojciec/deadlinks"
	"github.com/fwojciec/deadlinks/fs"
	"github.com/fwojciec/deadlinks/table"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if c.Show != "" {
		return c.show(deps)
	}

	filter := deadlinks.RunFilter{Limit: c.Limit}
	if c.Seed != "" {
		filter.Seed = &c.Seed
	}
	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deadlinks.ErrorMessage(err))
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded.")
		return nil
	}

	table.NewRunsWriter().WriteRuns(deps.Stdout, runs)
	return nil
}

// show prints the broken links of one run, one per line.
func (c *RunsCmd) show(deps *Dependencies) error {
	links, err := deps.Runs.FindBrokenLinks(deps.Ctx, c.Show)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deadlinks.ErrorMessage(err))
		return err
	}
	return fs.TextReport{}.WriteReport(deps.Stdout, &deadlinks.Report{RunID: c.Show, Broken: links})
}
