package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"
)

// JournalList prints recorded review actions in recording order.
func (r *Runner) JournalList(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	criteria := map[string]any{
		"dataset_id": int(cmd.Int("dataset")),
		"action":     cmd.String("action"),
		"limit":      int(cmd.Int("limit")),
	}

	entries, err := r.journal.List(criteria)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return r.writePlain("No journal entries recorded\n")
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		sampleID := ""
		if entry.SampleID > 0 {
			sampleID = strconv.Itoa(entry.SampleID)
		}
		rows = append(rows, []string{
			strconv.Itoa(entry.Sequence),
			entry.At.Format("2006-01-02 15:04:05"),
			entry.Username,
			entry.Action,
			strconv.Itoa(entry.DatasetID),
			sampleID,
		})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"Seq", "At", "User", "Action", "Dataset", "Sample"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	))
}

// JournalSummary counts recorded actions per type.
func (r *Runner) JournalSummary(ctx context.Context, cmd *cli.Command) error {
	if err := r.openDatabase(); err != nil {
		return err
	}

	counts, err := r.journal.CountByAction(int(cmd.Int("dataset")))
	if err != nil {
		return err
	}

	if len(counts) == 0 {
		return r.writePlain("No journal entries recorded\n")
	}

	rows := make([][]string, 0, len(counts))
	for action, count := range counts {
		rows = append(rows, []string{action, strconv.Itoa(count)})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"Action", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}
