package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/repositories"
	"ytcorpus/internal/shared"
)

// SampleAPI is the sample review surface of the backend client.
//
// This abstraction allows for easier testing and decoupling from the
// concrete implementation.
type SampleAPI interface {
	ListSamples(ctx context.Context, datasetID int, filters api.SampleFilters) (*api.SamplePage, error)
	UpdateSampleText(ctx context.Context, id int, text string) error
	ApproveSample(ctx context.Context, id int) error
	RejectSample(ctx context.Context, id int) error
}

// Recorder appends entries to the local review journal.
type Recorder interface {
	Record(entry *repositories.JournalEntry) error
}

// ReviewEngine applies review verdicts to samples.
//
// Approving a sample whose text was edited first persists the edit, then
// the approval. The backend's approve endpoint snapshots whatever text is
// stored at approval time, so the order is load-bearing.
type ReviewEngine struct {
	api      SampleAPI
	journal  Recorder
	username string
	logger   *log.Logger
}

// NewReviewEngine creates a ReviewEngine. The journal may be nil when no
// local database is configured.
func NewReviewEngine(sampleAPI SampleAPI, journal Recorder, username string, logger *log.Logger) *ReviewEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ReviewEngine{
		api:      sampleAPI,
		journal:  journal,
		username: username,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ReviewEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// record appends a journal entry, logging instead of failing the review
// action when the local database is unavailable.
func (e *ReviewEngine) record(action string, datasetID, sampleID int, detail string) {
	if e.journal == nil {
		return
	}
	entry := &repositories.JournalEntry{
		Username:  e.username,
		Action:    action,
		DatasetID: datasetID,
		SampleID:  sampleID,
		Detail:    detail,
	}
	if err := e.journal.Record(entry); err != nil {
		e.logger.Warn("failed to record journal entry", "action", action, "sample", sampleID, "err", err)
	}
}

// Approve accepts a sample's transcription.
//
// When editedText differs from the sample's stored text, the edit is
// saved before the approval so the approved record carries the corrected
// text. An edit that fails to save aborts the approval.
func (e *ReviewEngine) Approve(ctx context.Context, sample models.Sample, editedText string, progress chan<- ProgressUpdate) error {
	if e.api == nil {
		return fmt.Errorf("%w: sample API not initialized", shared.ErrServiceUnavailable)
	}

	if editedText != sample.TextOrEmpty() {
		e.sendProgress(progress, saveTextUpdate(sample.ID))

		if err := e.api.UpdateSampleText(ctx, sample.ID, editedText); err != nil {
			return fmt.Errorf("failed to save edited text for sample %d: %w", sample.ID, err)
		}
		e.record(repositories.ActionEdit, sample.DatasetID, sample.ID, editedText)
	}

	e.sendProgress(progress, approveUpdate(sample.ID))

	if err := e.api.ApproveSample(ctx, sample.ID); err != nil {
		return fmt.Errorf("failed to approve sample %d: %w", sample.ID, err)
	}
	e.record(repositories.ActionApprove, sample.DatasetID, sample.ID, "")

	return nil
}

// Reject marks a sample's transcription as rejected. Pending text edits
// are discarded, not saved.
func (e *ReviewEngine) Reject(ctx context.Context, sample models.Sample, progress chan<- ProgressUpdate) error {
	if e.api == nil {
		return fmt.Errorf("%w: sample API not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, rejectUpdate(sample.ID))

	if err := e.api.RejectSample(ctx, sample.ID); err != nil {
		return fmt.Errorf("failed to reject sample %d: %w", sample.ID, err)
	}
	e.record(repositories.ActionReject, sample.DatasetID, sample.ID, "")

	return nil
}

// Page fetches one page of a dataset's samples.
func (e *ReviewEngine) Page(ctx context.Context, datasetID int, filters api.SampleFilters) (*api.SamplePage, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: sample API not initialized", shared.ErrServiceUnavailable)
	}
	return e.api.ListSamples(ctx, datasetID, filters)
}

// CollectSamples pages through a dataset's full sample directory.
func (e *ReviewEngine) CollectSamples(ctx context.Context, datasetID, pageSize int, progress chan<- ProgressUpdate) ([]models.Sample, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: sample API not initialized", shared.ErrServiceUnavailable)
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	var samples []models.Sample
	for page := 1; ; page++ {
		result, err := e.api.ListSamples(ctx, datasetID, api.SampleFilters{Page: page, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch samples page %d: %w", page, err)
		}

		totalPages := (result.Total + pageSize - 1) / pageSize
		e.sendProgress(progress, fetchSamplesUpdate(datasetID, page, totalPages))

		samples = append(samples, result.Samples...)
		if len(result.Samples) < pageSize || len(samples) >= result.Total {
			break
		}
	}

	return samples, nil
}
