package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nikbrunner/gallery/internal/model"
)

// Pagination is the page metadata of list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Response is the backend envelope. Pagination is nil for single resources.
type Response[T any] struct {
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ListParams filters and pages painting lists. Zero values are omitted
// from the query string.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Encode renders the params as a query string including the leading "?",
// or "" when nothing is set.
func (p ListParams) Encode() string {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// CreatePaintingData is the body of POST /paintings.
type CreatePaintingData struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl"`
}

// UpdatePaintingData is the body of PUT /paintings/{id}. Nil fields are left
// unchanged by the backend.
type UpdatePaintingData struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// ListPaintings fetches one page of the public painting list.
func (c *Client) ListPaintings(ctx context.Context, p ListParams) (Response[[]model.Painting], error) {
	var resp Response[[]model.Painting]
	if err := c.do(ctx, http.MethodGet, "/paintings"+p.Encode(), nil, &resp); err != nil {
		return resp, fmt.Errorf("list paintings: %w", err)
	}
	return resp, nil
}

// MyPaintings fetches one page of the signed-in member's paintings.
func (c *Client) MyPaintings(ctx context.Context, p ListParams) (Response[[]model.Painting], error) {
	var resp Response[[]model.Painting]
	if err := c.do(ctx, http.MethodGet, "/paintings/my"+p.Encode(), nil, &resp); err != nil {
		return resp, fmt.Errorf("list my paintings: %w", err)
	}
	return resp, nil
}

// GetPainting fetches a single painting.
func (c *Client) GetPainting(ctx context.Context, id string) (model.Painting, error) {
	var resp Response[model.Painting]
	if err := c.do(ctx, http.MethodGet, "/paintings/"+url.PathEscape(id), nil, &resp); err != nil {
		return model.Painting{}, fmt.Errorf("get painting %s: %w", id, err)
	}
	return resp.Data, nil
}

// CreatePainting uploads a painting record. It is never retried.
func (c *Client) CreatePainting(ctx context.Context, data CreatePaintingData) (model.Painting, error) {
	var resp Response[model.Painting]
	if err := c.do(ctx, http.MethodPost, "/paintings", data, &resp); err != nil {
		return model.Painting{}, fmt.Errorf("create painting: %w", err)
	}
	return resp.Data, nil
}

// UpdatePainting changes the given fields of a painting.
func (c *Client) UpdatePainting(ctx context.Context, id string, data UpdatePaintingData) (model.Painting, error) {
	var resp Response[model.Painting]
	if err := c.do(ctx, http.MethodPut, "/paintings/"+url.PathEscape(id), data, &resp); err != nil {
		return model.Painting{}, fmt.Errorf("update painting %s: %w", id, err)
	}
	return resp.Data, nil
}

// DeletePainting removes a painting.
func (c *Client) DeletePainting(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/paintings/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete painting %s: %w", id, err)
	}
	return nil
}

// maxPages bounds FetchAll against a backend that never reports the end.
const maxPages = 500

// FetchAll walks every page of the painting list for p.Search, starting at
// page 1, and returns the concatenated data.
func (c *Client) FetchAll(ctx context.Context, p ListParams) ([]model.Painting, error) {
	var all []model.Painting
	p.Page = 1
	for p.Page <= maxPages {
		resp, err := c.ListPaintings(ctx, p)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)

		if resp.Pagination == nil || p.Page >= resp.Pagination.TotalPages || len(resp.Data) == 0 {
			break
		}
		p.Page++
	}
	c.logger.Debug("fetched paintings", "count", len(all), "pages", p.Page)
	if all == nil {
		all = []model.Painting{}
	}
	return all, nil
}
