package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/shared"
	"ytcorpus/internal/tasks"
)

// DatasetsList lists datasets from the backend directory.
func (r *Runner) DatasetsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSession(); err != nil {
		return err
	}

	filters := api.DatasetFilters{
		Status:     models.DatasetStatus(cmd.String("status")),
		NameSearch: cmd.String("search"),
		Page:       int(cmd.Int("page")),
		Limit:      int(cmd.Int("limit")),
	}

	page, err := r.client.ListDatasets(ctx, filters)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	rows := make([][]string, 0, len(page.Items))
	for _, dataset := range page.Items {
		duration := ""
		if dataset.Duration != nil {
			duration = shared.FormatDuration(*dataset.Duration)
		}
		rows = append(rows, []string{
			strconv.Itoa(dataset.ID),
			dataset.Name,
			dataset.Status.Label(),
			strconv.Itoa(dataset.CountOfSamples),
			duration,
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"ID", "Name", "Status", "Samples", "Duration"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	))
	return r.writePlain("Page %d, %d of %d datasets\n", page.Page, len(page.Items), page.Total)
}

// DatasetsShow prints one dataset record.
func (r *Runner) DatasetsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}

	dataset, err := r.client.GetDataset(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(dataset, true)
	}

	r.writePlain("Dataset #%d: %s\n", dataset.ID, dataset.Name)
	r.writePlain("  Source:  %s\n", dataset.URL)
	r.writePlain("  Status:  %s\n", dataset.Status.Label())
	r.writePlain("  Samples: %d\n", dataset.CountOfSamples)
	if dataset.Duration != nil {
		r.writePlain("  Audio:   %s\n", shared.FormatDuration(*dataset.Duration))
	}
	r.writePlain("  Created: %s\n", dataset.CreatedAt)
	return nil
}

// DatasetsCreate submits a video URL for ingestion.
func (r *Runner) DatasetsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapCreateDatasets); err != nil {
		return err
	}

	req := api.InitializeRequest{
		URL:         cmd.String("url"),
		MinDuration: cmd.Float("min-duration"),
		MaxDuration: cmd.Float("max-duration"),
	}

	engine := r.ingestEngine()
	resp, err := engine.Initialize(ctx, req, nil)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s\n", resp.Message)

	if !cmd.Bool("watch") {
		return nil
	}

	// The backend creates the record asynchronously; find it by URL.
	page, err := r.client.ListDatasets(ctx, api.DatasetFilters{Limit: 50})
	if err != nil {
		return err
	}
	for _, dataset := range page.Items {
		if dataset.URL == req.URL && dataset.Status.Transient() {
			return r.watchDataset(ctx, engine, dataset.ID)
		}
	}

	r.logger.Warn("new dataset not visible yet, skipping watch")
	return nil
}

// DatasetsDelete removes a dataset and all of its samples.
func (r *Runner) DatasetsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapDeleteDatasets); err != nil {
		return err
	}

	resp, err := r.ingestEngine().Delete(ctx, id)
	if err != nil {
		return err
	}

	return r.writePlain("✓ %s\n", resp.Message)
}

// DatasetsTranscribe starts transcription for a sampled dataset.
func (r *Runner) DatasetsTranscribe(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}
	if err := r.requireCapability(models.CapStartTranscription); err != nil {
		return err
	}

	model := cmd.String("model")
	if model == "" {
		model = r.config.Review.Model
	}

	engine := r.ingestEngine()
	ticket, err := engine.StartTranscription(ctx, id, model, nil)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s (task %s)\n", ticket.Message, ticket.TaskID)

	if cmd.Bool("watch") {
		return r.watchDataset(ctx, engine, id)
	}
	return nil
}

// DatasetsWatch follows a dataset's progress until it settles.
func (r *Runner) DatasetsWatch(ctx context.Context, cmd *cli.Command) error {
	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	if err := r.restoreSession(); err != nil {
		return err
	}

	return r.watchDataset(ctx, r.ingestEngine(), id)
}

func (r *Runner) watchDataset(ctx context.Context, engine *tasks.IngestEngine, id int) error {
	updates := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go r.drainProgress(updates, done)

	dataset, err := engine.Watch(ctx, id, updates)
	close(updates)
	<-done

	if err != nil {
		return err
	}

	status := dataset.Status
	if status == models.DatasetError || status == models.DatasetFailedTranscription {
		return fmt.Errorf("dataset #%d settled with status %s", dataset.ID, status.Label())
	}

	return r.writePlain("✓ Dataset #%d settled: %s, %d samples\n", dataset.ID, status.Label(), dataset.CountOfSamples)
}
