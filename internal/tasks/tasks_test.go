package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/progress"
	"ytcorpus/internal/repositories"
)

// mockSampleAPI records the order of review calls.
type mockSampleAPI struct {
	mu    sync.Mutex
	calls []string

	updateErr  error
	approveErr error
	rejectErr  error
	pages      []*api.SamplePage
}

func (m *mockSampleAPI) call(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockSampleAPI) ListSamples(_ context.Context, _ int, filters api.SampleFilters) (*api.SamplePage, error) {
	m.call(fmt.Sprintf("list:%d", filters.Page))
	if filters.Page < 1 || filters.Page > len(m.pages) {
		return nil, errors.New("page out of range")
	}
	return m.pages[filters.Page-1], nil
}

func (m *mockSampleAPI) UpdateSampleText(_ context.Context, id int, _ string) error {
	m.call(fmt.Sprintf("update:%d", id))
	return m.updateErr
}

func (m *mockSampleAPI) ApproveSample(_ context.Context, id int) error {
	m.call(fmt.Sprintf("approve:%d", id))
	return m.approveErr
}

func (m *mockSampleAPI) RejectSample(_ context.Context, id int) error {
	m.call(fmt.Sprintf("reject:%d", id))
	return m.rejectErr
}

// mockRecorder collects journal entries in memory.
type mockRecorder struct {
	mu      sync.Mutex
	entries []repositories.JournalEntry
}

func (m *mockRecorder) Record(entry *repositories.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockRecorder) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := make([]string, len(m.entries))
	for i, entry := range m.entries {
		actions[i] = entry.Action
	}
	return actions
}

func sampleWithText(id int, text string) models.Sample {
	return models.Sample{
		ID:        id,
		DatasetID: 1,
		Filename:  fmt.Sprintf("sample_%04d.wav", id),
		Text:      &text,
		Status:    models.SampleCompleted,
	}
}

func TestReviewEngineApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves Edited Text Before Approving", func(t *testing.T) {
		mock := &mockSampleAPI{}
		journal := &mockRecorder{}
		engine := NewReviewEngine(mock, journal, "annotator", nil)

		sample := sampleWithText(7, "original transcription")
		if err := engine.Approve(ctx, sample, "corrected transcription", nil); err != nil {
			t.Fatalf("approve failed: %v", err)
		}

		want := []string{"update:7", "approve:7"}
		if len(mock.calls) != 2 || mock.calls[0] != want[0] || mock.calls[1] != want[1] {
			t.Errorf("expected calls %v, got %v", want, mock.calls)
		}

		actions := journal.actions()
		if len(actions) != 2 || actions[0] != repositories.ActionEdit || actions[1] != repositories.ActionApprove {
			t.Errorf("expected edit then approve journal entries, got %v", actions)
		}
	})

	t.Run("Skips Save When Text Unchanged", func(t *testing.T) {
		mock := &mockSampleAPI{}
		engine := NewReviewEngine(mock, nil, "annotator", nil)

		sample := sampleWithText(7, "unchanged")
		if err := engine.Approve(ctx, sample, "unchanged", nil); err != nil {
			t.Fatalf("approve failed: %v", err)
		}

		if len(mock.calls) != 1 || mock.calls[0] != "approve:7" {
			t.Errorf("expected a single approve call, got %v", mock.calls)
		}
	})

	t.Run("Treats Nil Text As Empty", func(t *testing.T) {
		mock := &mockSampleAPI{}
		engine := NewReviewEngine(mock, nil, "annotator", nil)

		sample := models.Sample{ID: 9, DatasetID: 1, Status: models.SampleNew}
		if err := engine.Approve(ctx, sample, "first transcription", nil); err != nil {
			t.Fatalf("approve failed: %v", err)
		}

		if len(mock.calls) != 2 || mock.calls[0] != "update:9" {
			t.Errorf("expected text save before approve, got %v", mock.calls)
		}
	})

	t.Run("Aborts When Save Fails", func(t *testing.T) {
		mock := &mockSampleAPI{updateErr: errors.New("backend rejected edit")}
		journal := &mockRecorder{}
		engine := NewReviewEngine(mock, journal, "annotator", nil)

		sample := sampleWithText(7, "original")
		err := engine.Approve(ctx, sample, "edited", nil)
		if err == nil {
			t.Fatal("expected error when save fails")
		}

		for _, call := range mock.calls {
			if call == "approve:7" {
				t.Error("approve must not be called when the edit fails to save")
			}
		}
		if len(journal.actions()) != 0 {
			t.Errorf("expected no journal entries, got %v", journal.actions())
		}
	})
}

func TestReviewEngineReject(t *testing.T) {
	ctx := context.Background()

	mock := &mockSampleAPI{}
	journal := &mockRecorder{}
	engine := NewReviewEngine(mock, journal, "annotator", nil)

	sample := sampleWithText(4, "whatever")
	if err := engine.Reject(ctx, sample, nil); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if len(mock.calls) != 1 || mock.calls[0] != "reject:4" {
		t.Errorf("expected a single reject call, got %v", mock.calls)
	}

	actions := journal.actions()
	if len(actions) != 1 || actions[0] != repositories.ActionReject {
		t.Errorf("expected one reject journal entry, got %v", actions)
	}
}

func TestReviewEngineCollectSamples(t *testing.T) {
	ctx := context.Background()

	makeSamples := func(from, count int) []models.Sample {
		samples := make([]models.Sample, count)
		for i := range samples {
			samples[i] = sampleWithText(from+i, "text")
		}
		return samples
	}

	mock := &mockSampleAPI{
		pages: []*api.SamplePage{
			{Page: 1, Limit: 2, Total: 5, Samples: makeSamples(1, 2)},
			{Page: 2, Limit: 2, Total: 5, Samples: makeSamples(3, 2)},
			{Page: 3, Limit: 2, Total: 5, Samples: makeSamples(5, 1)},
		},
	}
	engine := NewReviewEngine(mock, nil, "annotator", nil)

	samples, err := engine.CollectSamples(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	if samples[0].ID != 1 || samples[4].ID != 5 {
		t.Errorf("expected samples in page order, got first %d last %d", samples[0].ID, samples[4].ID)
	}
}

// mockDatasetAPI serves scripted dataset records and directory pages.
type mockDatasetAPI struct {
	mu      sync.Mutex
	gets    []models.Dataset
	getCall int
	pages   []*api.DatasetPage

	initResp *api.MessageResponse
	initErr  error
}

func (m *mockDatasetAPI) ListDatasets(_ context.Context, filters api.DatasetFilters) (*api.DatasetPage, error) {
	if filters.Page < 1 || filters.Page > len(m.pages) {
		return nil, errors.New("page out of range")
	}
	return m.pages[filters.Page-1], nil
}

func (m *mockDatasetAPI) GetDataset(_ context.Context, _ int) (*models.Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.gets) == 0 {
		return nil, errors.New("no scripted dataset")
	}
	dataset := m.gets[m.getCall]
	if m.getCall < len(m.gets)-1 {
		m.getCall++
	}
	return &dataset, nil
}

func (m *mockDatasetAPI) InitializeDataset(_ context.Context, _ api.InitializeRequest) (*api.MessageResponse, error) {
	return m.initResp, m.initErr
}

func (m *mockDatasetAPI) DeleteDataset(_ context.Context, _ int) (*api.MessageResponse, error) {
	return &api.MessageResponse{Message: "deleted"}, nil
}

func (m *mockDatasetAPI) Transcribe(_ context.Context, _ int, _ string) (*api.TranscribeTicket, error) {
	return &api.TranscribeTicket{Message: "started", TaskID: "task-1"}, nil
}

// scriptedConn replays pre-marshaled frames and then blocks until closed.
type scriptedConn struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once
}

func newScriptedConn(t *testing.T, events ...progress.Event) *scriptedConn {
	t.Helper()
	conn := &scriptedConn{
		frames: make(chan []byte, len(events)),
		closed: make(chan struct{}),
	}
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			t.Fatalf("failed to marshal event: %v", err)
		}
		conn.frames <- data
	}
	return conn
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.frames:
		return 1, data, nil
	case <-c.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *scriptedConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func TestIngestEngineWatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Follows Until Settled", func(t *testing.T) {
		mock := &mockDatasetAPI{
			gets: []models.Dataset{
				{ID: 7, Name: "lecture", Status: models.DatasetSampling},
				{ID: 7, Name: "lecture", Status: models.DatasetSampled, CountOfSamples: 120},
			},
		}
		dial := func(_ context.Context, datasetID int) (progress.Conn, error) {
			return newScriptedConn(t,
				progress.Event{DatasetID: datasetID, Task: "sampling", Progress: 40},
				progress.Event{DatasetID: datasetID, Task: "sampling", Progress: 100},
			), nil
		}

		engine := NewIngestEngine(mock, dial, nil, "admin", nil)

		updates := make(chan ProgressUpdate, 16)
		dataset, err := engine.Watch(ctx, 7, updates)
		if err != nil {
			t.Fatalf("watch failed: %v", err)
		}

		if dataset.Status != models.DatasetSampled {
			t.Errorf("expected settled status SAMPLED, got %s", dataset.Status)
		}
		if dataset.CountOfSamples != 120 {
			t.Errorf("expected refetched record, got %+v", dataset)
		}

		var sawProgress bool
		close(updates)
		for u := range updates {
			if u.Phase == WatchUpdates {
				sawProgress = true
			}
		}
		if !sawProgress {
			t.Error("expected at least one watch progress update")
		}
	})

	t.Run("Returns Immediately When Already Settled", func(t *testing.T) {
		mock := &mockDatasetAPI{
			gets: []models.Dataset{{ID: 7, Status: models.DatasetReady}},
		}
		dialed := false
		dial := func(_ context.Context, _ int) (progress.Conn, error) {
			dialed = true
			return nil, errors.New("should not dial")
		}

		engine := NewIngestEngine(mock, dial, nil, "admin", nil)

		dataset, err := engine.Watch(ctx, 7, nil)
		if err != nil {
			t.Fatalf("watch failed: %v", err)
		}
		if dataset.Status != models.DatasetReady {
			t.Errorf("expected READY, got %s", dataset.Status)
		}
		if dialed {
			t.Error("expected no dial for a settled dataset")
		}
	})
}

func TestIngestEngineInitialize(t *testing.T) {
	ctx := context.Background()

	mock := &mockDatasetAPI{initResp: &api.MessageResponse{Message: "dataset created"}}
	journal := &mockRecorder{}
	engine := NewIngestEngine(mock, nil, journal, "admin", nil)

	resp, err := engine.Initialize(ctx, api.InitializeRequest{
		URL:         "https://youtube.com/watch?v=abc123",
		MinDuration: 3,
		MaxDuration: 15,
	}, nil)
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if resp.Message != "dataset created" {
		t.Errorf("unexpected response: %+v", resp)
	}

	actions := journal.actions()
	if len(actions) != 1 || actions[0] != repositories.ActionInitialize {
		t.Errorf("expected one initialize journal entry, got %v", actions)
	}
}

func TestCollectStatistics(t *testing.T) {
	ctx := context.Background()

	duration := func(v float64) *float64 { return &v }
	mock := &mockDatasetAPI{
		pages: []*api.DatasetPage{
			{
				Page: 1, Limit: 2, Total: 3,
				Items: []models.Dataset{
					{ID: 1, Status: models.DatasetReady, CountOfSamples: 100, Duration: duration(3600)},
					{ID: 2, Status: models.DatasetSampling, CountOfSamples: 40},
				},
			},
			{
				Page: 2, Limit: 2, Total: 3,
				Items: []models.Dataset{
					{ID: 3, Status: models.DatasetReview, CountOfSamples: 60, Duration: duration(1800)},
				},
			},
		},
	}

	stats, err := CollectStatistics(ctx, mock, 2, nil)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	if stats.TotalDatasets != 3 {
		t.Errorf("expected 3 datasets, got %d", stats.TotalDatasets)
	}
	if stats.TotalSamples != 200 {
		t.Errorf("expected 200 samples, got %d", stats.TotalSamples)
	}
	if stats.TotalDuration != 5400 {
		t.Errorf("expected 5400s total duration, got %f", stats.TotalDuration)
	}
	if stats.InProgress != 1 {
		t.Errorf("expected 1 in-progress dataset, got %d", stats.InProgress)
	}
	if stats.ByStatus[models.DatasetReady] != 1 || stats.ByStatus[models.DatasetReview] != 1 {
		t.Errorf("unexpected status histogram: %v", stats.ByStatus)
	}
}
