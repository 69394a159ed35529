package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ytcorpus/internal/models"
)

// UserPage is the paginated user directory envelope.
type UserPage struct {
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Users    []models.User `json:"users"`
}

// ListUsers queries user accounts. Admin-only on the backend side.
func (c *Client) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		values.Set("page_size", strconv.Itoa(pageSize))
	}

	var result UserPage
	if err := c.do(ctx, http.MethodGet, "/users/"+encodeQuery(values), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteUser removes a user account. Admin-only on the backend side.
func (c *Client) DeleteUser(ctx context.Context, id int) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
