package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GalleryPhoto is a single photo within a gallery case study
type GalleryPhoto struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// GalleryItem is a published case study shown in the public gallery
type GalleryItem struct {
	ID       int64          `json:"id"`
	Title    string         `json:"title"`
	Caption  string         `json:"caption"`
	Text     string         `json:"text"`
	FullText string         `json:"fullText,omitempty"`
	Photos   []GalleryPhoto `json:"photos"`
	Category string         `json:"category"`
	Status   string         `json:"status,omitempty"`
	Date     string         `json:"date"`
	Duration string         `json:"duration"`
}

// GalleryListParams filter the admin gallery listing
type GalleryListParams struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Category string
}

// GalleryListResponse is a paginated admin gallery listing
type GalleryListResponse struct {
	Items    []GalleryItem `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int           `json:"total"`
	Pages    int           `json:"pages"`
}

// CreateGalleryRequest creates a new case study
type CreateGalleryRequest struct {
	Title    string         `json:"title"`
	Caption  string         `json:"caption,omitempty"`
	Text     string         `json:"text,omitempty"`
	FullText string         `json:"fullText,omitempty"`
	Photos   []GalleryPhoto `json:"photos,omitempty"`
	Category string         `json:"category,omitempty"`
	Duration string         `json:"duration,omitempty"`
}

// UpdateGalleryRequest patches a case study; nil fields are untouched
type UpdateGalleryRequest struct {
	Title    *string        `json:"title,omitempty"`
	Caption  *string        `json:"caption,omitempty"`
	Text     *string        `json:"text,omitempty"`
	FullText *string        `json:"fullText,omitempty"`
	Photos   []GalleryPhoto `json:"photos,omitempty"`
	Category *string        `json:"category,omitempty"`
	Status   *string        `json:"status,omitempty"`
	Duration *string        `json:"duration,omitempty"`
}

// BulkGalleryStatusRequest updates the status of several items at once
type BulkGalleryStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

// GalleryStats summarizes the admin gallery
type GalleryStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Archived  int `json:"archived"`
}

func (p GalleryListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	return q
}

// GalleryList returns the public gallery
func (c *Client) GalleryList(ctx context.Context) ([]GalleryItem, error) {
	var items []GalleryItem
	if err := c.get(ctx, "/gallery", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GalleryDetail returns one public gallery item
func (c *Client) GalleryDetail(ctx context.Context, id int64) (*GalleryItem, error) {
	var item GalleryItem
	if err := c.get(ctx, fmt.Sprintf("/gallery/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AdminGalleryList returns the filtered admin listing
func (c *Client) AdminGalleryList(ctx context.Context, params GalleryListParams) (*GalleryListResponse, error) {
	var resp GalleryListResponse
	if err := c.get(ctx, "/admin/gallery", params.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminGalleryDetail returns one item including unpublished ones
func (c *Client) AdminGalleryDetail(ctx context.Context, id int64) (*GalleryItem, error) {
	var item GalleryItem
	if err := c.get(ctx, fmt.Sprintf("/admin/gallery/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateGalleryItem creates a case study
func (c *Client) CreateGalleryItem(ctx context.Context, req CreateGalleryRequest) (*GalleryItem, error) {
	var item GalleryItem
	if err := c.post(ctx, "/admin/gallery", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateGalleryItem patches a case study
func (c *Client) UpdateGalleryItem(ctx context.Context, id int64, req UpdateGalleryRequest) (*GalleryItem, error) {
	var item GalleryItem
	if err := c.put(ctx, fmt.Sprintf("/admin/gallery/%d", id), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteGalleryItem removes a case study
func (c *Client) DeleteGalleryItem(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/gallery/%d", id))
}

// BulkUpdateGalleryStatus updates several items' status in one call
func (c *Client) BulkUpdateGalleryStatus(ctx context.Context, req BulkGalleryStatusRequest) error {
	return c.post(ctx, "/admin/gallery/bulk/status", req, nil)
}

// GalleryStatistics returns admin gallery counters
func (c *Client) GalleryStatistics(ctx context.Context) (*GalleryStats, error) {
	var stats GalleryStats
	if err := c.get(ctx, "/admin/gallery/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
