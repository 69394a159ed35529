package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
)

const textPreviewLimit = 60

// SamplesList lists one page of a dataset's samples.
func (r *Runner) SamplesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSession(); err != nil {
		return err
	}

	datasetID := int(cmd.Int("dataset"))
	filters := api.SampleFilters{
		Page:   int(cmd.Int("page")),
		Limit:  int(cmd.Int("limit")),
		Status: models.SampleStatus(cmd.String("status")),
		Search: cmd.String("search"),
	}

	page, err := r.reviewEngine().Page(ctx, datasetID, filters)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, true)
	}

	rows := make([][]string, 0, len(page.Samples))
	for _, sample := range page.Samples {
		text := sample.TextOrEmpty()
		if text == "" {
			text = "(no transcription)"
		}
		if len(text) > textPreviewLimit {
			text = text[:textPreviewLimit-3] + "..."
		}
		rows = append(rows, []string{
			strconv.Itoa(sample.ID),
			sample.Filename,
			sample.Status.Label(),
			text,
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"ID", "File", "Status", "Text"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
	return r.writePlain("Page %d, %d of %d samples\n", page.Page, len(page.Samples), page.Total)
}

// SamplesEdit replaces a sample's transcription text without approving it.
func (r *Runner) SamplesEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapEditSamples); err != nil {
		return err
	}

	if err := r.client.UpdateSampleText(ctx, id, cmd.String("text")); err != nil {
		return err
	}

	return r.writePlain("✓ Sample #%d text updated\n", id)
}

// SamplesApprove approves a sample, saving corrected text first when the
// --text flag is given.
func (r *Runner) SamplesApprove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapReviewSamples); err != nil {
		return err
	}

	// With no stored text available here, any --text value counts as an
	// edit and is saved before the approval.
	sample := models.Sample{ID: id}
	if err := r.reviewEngine().Approve(ctx, sample, cmd.String("text"), nil); err != nil {
		return err
	}

	return r.writePlain("✓ Sample #%d approved\n", id)
}

// SamplesReject rejects a sample, returning it to the review queue.
func (r *Runner) SamplesReject(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapReviewSamples); err != nil {
		return err
	}

	if err := r.reviewEngine().Reject(ctx, models.Sample{ID: id}, nil); err != nil {
		return err
	}

	return r.writePlain("✓ Sample #%d rejected\n", id)
}
