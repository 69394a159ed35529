package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/models"
	"ytcorpus/internal/shared"
	"ytcorpus/internal/tasks"
)

// Stats aggregates statistics across the whole dataset directory.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapViewStatistics); err != nil {
		return err
	}

	stats, err := tasks.CollectStatistics(ctx, r.client, 100, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlain("Datasets:    %d\n", stats.TotalDatasets)
	r.writePlain("Samples:     %d\n", stats.TotalSamples)
	r.writePlain("Total audio: %s\n", shared.FormatDuration(stats.TotalDuration))
	r.writePlain("In progress: %d\n\n", stats.InProgress)

	rows := make([][]string, 0, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		rows = append(rows, []string{status.Label(), strconv.Itoa(count)})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"Status", "Datasets"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}
