package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ytcorpus/internal/models"
)

// SampleFilters are the supported sample directory query parameters.
type SampleFilters struct {
	Page      int
	Limit     int
	Status    models.SampleStatus
	Search    string
	FromIndex *int
	ToIndex   *int
}

func (f SampleFilters) query() url.Values {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.FromIndex != nil {
		values.Set("from_index", strconv.Itoa(*f.FromIndex))
	}
	if f.ToIndex != nil {
		values.Set("to_index", strconv.Itoa(*f.ToIndex))
	}
	return values
}

// SamplePage is the paginated sample directory envelope.
type SamplePage struct {
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Total   int             `json:"total"`
	Samples []models.Sample `json:"samples"`
}

// ListSamples queries samples belonging to a dataset.
func (c *Client) ListSamples(ctx context.Context, datasetID int, filters SampleFilters) (*SamplePage, error) {
	var page SamplePage
	path := fmt.Sprintf("/samples/by-dataset/%d", datasetID) + encodeQuery(filters.query())
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateSampleText replaces a sample's transcription text.
func (c *Client) UpdateSampleText(ctx context.Context, id int, text string) error {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/samples/%d", id), body, nil)
}

// ApproveSample marks a sample's transcription as accepted.
func (c *Client) ApproveSample(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/samples/%d/approve", id), nil, nil)
}

// RejectSample marks a sample's transcription as rejected.
func (c *Client) RejectSample(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/samples/%d/reject", id), nil, nil)
}
