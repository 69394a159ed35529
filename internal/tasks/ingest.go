package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/progress"
	"ytcorpus/internal/repositories"
	"ytcorpus/internal/shared"
)

// reconcileInterval bounds how long a missed push frame can delay the
// watch loop: the authoritative record is re-fetched at least this often.
const reconcileInterval = 5 * time.Second

// DatasetAPI is the dataset lifecycle surface of the backend client.
type DatasetAPI interface {
	ListDatasets(ctx context.Context, filters api.DatasetFilters) (*api.DatasetPage, error)
	GetDataset(ctx context.Context, id int) (*models.Dataset, error)
	InitializeDataset(ctx context.Context, req api.InitializeRequest) (*api.MessageResponse, error)
	DeleteDataset(ctx context.Context, id int) (*api.MessageResponse, error)
	Transcribe(ctx context.Context, datasetID int, modelName string) (*api.TranscribeTicket, error)
}

// IngestEngine drives dataset ingestion and transcription and can follow
// a dataset's processing through its push channel until it settles.
type IngestEngine struct {
	api      DatasetAPI
	dial     progress.Dialer
	journal  Recorder
	username string
	logger   *log.Logger
}

// NewIngestEngine creates an IngestEngine. dial may be nil when watching
// is not needed; journal may be nil when no local database is configured.
func NewIngestEngine(datasetAPI DatasetAPI, dial progress.Dialer, journal Recorder, username string, logger *log.Logger) *IngestEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &IngestEngine{
		api:      datasetAPI,
		dial:     dial,
		journal:  journal,
		username: username,
		logger:   logger,
	}
}

func (e *IngestEngine) sendProgress(updates chan<- ProgressUpdate, update ProgressUpdate) {
	if updates == nil {
		return
	}
	select {
	case updates <- update:
	default:
	}
}

func (e *IngestEngine) record(action string, datasetID int, detail string) {
	if e.journal == nil {
		return
	}
	entry := &repositories.JournalEntry{
		Username:  e.username,
		Action:    action,
		DatasetID: datasetID,
		Detail:    detail,
	}
	if err := e.journal.Record(entry); err != nil {
		e.logger.Warn("failed to record journal entry", "action", action, "dataset", datasetID, "err", err)
	}
}

// Initialize submits a video URL for ingestion.
func (e *IngestEngine) Initialize(ctx context.Context, req api.InitializeRequest, updates chan<- ProgressUpdate) (*api.MessageResponse, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: dataset API not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(updates, initializeUpdate(req.URL))

	resp, err := e.api.InitializeDataset(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dataset from %s: %w", req.URL, err)
	}
	e.record(repositories.ActionInitialize, 0, req.URL)

	return resp, nil
}

// StartTranscription starts transcription of a sampled dataset.
func (e *IngestEngine) StartTranscription(ctx context.Context, datasetID int, modelName string, updates chan<- ProgressUpdate) (*api.TranscribeTicket, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: dataset API not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(updates, transcribeUpdate(datasetID, modelName))

	ticket, err := e.api.Transcribe(ctx, datasetID, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to start transcription for dataset %d: %w", datasetID, err)
	}
	e.record(repositories.ActionTranscribe, datasetID, modelName)

	return ticket, nil
}

// Delete removes a dataset and records the removal.
func (e *IngestEngine) Delete(ctx context.Context, datasetID int) (*api.MessageResponse, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: dataset API not initialized", shared.ErrServiceUnavailable)
	}

	resp, err := e.api.DeleteDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete dataset %d: %w", datasetID, err)
	}
	e.record(repositories.ActionDelete, datasetID, "")

	return resp, nil
}

// Watch follows a dataset through its transient statuses and returns the
// settled record.
//
// Push frames drive display updates; the authoritative record is
// re-fetched on every completion hint and on a fixed interval, so a
// dropped frame or dead socket only delays settlement, never misses it.
func (e *IngestEngine) Watch(ctx context.Context, datasetID int, updates chan<- ProgressUpdate) (*models.Dataset, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: dataset API not initialized", shared.ErrServiceUnavailable)
	}
	if e.dial == nil {
		return nil, fmt.Errorf("%w: no push channel dialer configured", shared.ErrServiceUnavailable)
	}

	e.sendProgress(updates, fetchRecordUpdate(datasetID))

	dataset, err := e.api.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %d: %w", datasetID, err)
	}
	if !dataset.Status.Transient() {
		return dataset, nil
	}

	manager := progress.NewManager(e.dial, e.logger)
	defer manager.Teardown()

	state := func(d *models.Dataset) []progress.DatasetState {
		return []progress.DatasetState{{ID: d.ID, Status: d.Status}}
	}
	manager.Reconcile(ctx, state(dataset))

	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	refetch := func() error {
		d, err := e.api.GetDataset(ctx, datasetID)
		if err != nil {
			return fmt.Errorf("failed to refresh dataset %d: %w", datasetID, err)
		}
		dataset = d
		manager.Reconcile(ctx, state(dataset))
		return nil
	}

	for dataset.Status.Transient() {
		select {
		case <-ctx.Done():
			return dataset, ctx.Err()

		case u := <-manager.Updates():
			if u.Refetch {
				if err := refetch(); err != nil {
					return dataset, err
				}
				continue
			}
			if u.Event != nil {
				e.sendProgress(updates, watchUpdate(u.DatasetID, u.Event.Task, u.Event.Progress))
			}

		case <-ticker.C:
			if err := refetch(); err != nil {
				return dataset, err
			}
		}
	}

	return dataset, nil
}
