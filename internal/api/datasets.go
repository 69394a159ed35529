package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ytcorpus/internal/models"
)

// DatasetFilters are the supported dataset directory query parameters.
type DatasetFilters struct {
	Status      models.DatasetStatus
	NameSearch  string
	CreatedFrom string
	CreatedTo   string
	Page        int
	Limit       int
}

func (f DatasetFilters) query() url.Values {
	values := url.Values{}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.NameSearch != "" {
		values.Set("name_search", f.NameSearch)
	}
	if f.CreatedFrom != "" {
		values.Set("created_from", f.CreatedFrom)
	}
	if f.CreatedTo != "" {
		values.Set("created_to", f.CreatedTo)
	}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	return values
}

// DatasetPage is the paginated dataset directory envelope.
type DatasetPage struct {
	Items []models.Dataset `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// InitializeRequest starts ingestion of a video into segmented samples.
type InitializeRequest struct {
	URL         string  `json:"url"`
	MinDuration float64 `json:"min_duration"`
	MaxDuration float64 `json:"max_duration"`
}

// TranscribeTicket acknowledges a transcription start command.
type TranscribeTicket struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// ListDatasets queries the dataset directory.
func (c *Client) ListDatasets(ctx context.Context, filters DatasetFilters) (*DatasetPage, error) {
	var page DatasetPage
	if err := c.do(ctx, http.MethodGet, "/datasets/"+encodeQuery(filters.query()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDataset fetches the authoritative record for one dataset.
func (c *Client) GetDataset(ctx context.Context, id int) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/datasets/%d", id), nil, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

// InitializeDataset asks the backend to ingest a video.
//
// 409 means the URL was already ingested; 400 means invalid input. Both
// surface through the detail envelope.
func (c *Client) InitializeDataset(ctx context.Context, req InitializeRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/datasets/initialize", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteDataset removes a dataset and its samples.
func (c *Client) DeleteDataset(ctx context.Context, id int) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/datasets/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transcribe starts transcription of a sampled dataset with the named model.
func (c *Client) Transcribe(ctx context.Context, datasetID int, modelName string) (*TranscribeTicket, error) {
	body := struct {
		ModelName string `json:"model_name"`
	}{ModelName: modelName}

	var ticket TranscribeTicket
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/transcribe/%d", datasetID), body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}
