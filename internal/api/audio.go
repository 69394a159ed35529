package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"ytcorpus/internal/shared"
)

// StreamAudio opens the raw audio stream for one sample file.
//
// The caller owns the returned body and must close it. The content type
// reported by the backend is returned alongside so it can be forwarded.
func (c *Client) StreamAudio(ctx context.Context, datasetID int, filename string) (io.ReadCloser, string, error) {
	values := url.Values{}
	values.Set("dataset_id", strconv.Itoa(datasetID))
	values.Set("filename", filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/audio/stream?"+values.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.session != nil {
		req.AddCookie(c.session)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, "", c.apiError(resp)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}
