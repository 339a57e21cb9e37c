package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Boat represents a for-sale or for-rent vessel record.
type Boat struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Brand         string      `json:"brand"`
	Model         string      `json:"model"`
	Year          int         `json:"year"`
	Length        float64     `json:"length"`
	Price         json.Number `json:"price"`
	BoatCondition string      `json:"boat_condition"`
	Location      string      `json:"location"`
	Type          string      `json:"type"`
	CreatedAt     string      `json:"created_at"`
	Images        []BoatImage `json:"images"`
}

// BoatImage is a stored image reference; ImageURL is relative to the
// API's public storage root.
type BoatImage struct {
	ImageURL string `json:"image_url"`
}

// HourlyRate returns the listed price as a rental rate per hour.
// The API serializes decimals as strings, hence the json.Number.
func (b *Boat) HourlyRate() float64 {
	rate, err := b.Price.Float64()
	if err != nil {
		return 0
	}
	return rate
}

// BoatQuery holds the /boats filter set. Zero values are omitted from
// the request.
type BoatQuery struct {
	Type       string
	City       string
	Category   string
	SellerType string
	Warranty   string
	MinPrice   float64
	MaxPrice   float64
	Page       int
	PerPage    int
}

func (q BoatQuery) values() url.Values {
	v := url.Values{}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.City != "" {
		v.Set("city", q.City)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.SellerType != "" {
		v.Set("seller_type", q.SellerType)
	}
	if q.Warranty != "" {
		v.Set("warranty", q.Warranty)
	}
	if q.MinPrice > 0 {
		v.Set("min_price", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 {
		v.Set("max_price", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// BoatPage is the paginated /boats envelope.
type BoatPage struct {
	Data    []Boat `json:"data"`
	Total   int    `json:"total"`
	Page    int    `json:"current_page"`
	PerPage int    `json:"per_page"`
}

// ListBoats fetches boats matching the query.
func (c *Client) ListBoats(ctx context.Context, q BoatQuery) (*BoatPage, error) {
	var out BoatPage
	if err := c.doJSON(ctx, http.MethodGet, "/boats", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBoat fetches a single boat by id.
func (c *Client) GetBoat(ctx context.Context, id int64) (*Boat, error) {
	var out Boat
	if err := c.doJSON(ctx, http.MethodGet, "/boats/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageUpload is one ad photo to attach to a new boat.
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

// NewBoatRequest places a boat ad. Images ride along as multipart
// file parts, everything else as form fields.
type NewBoatRequest struct {
	UserID        int64
	Title         string
	Description   string
	Brand         string
	Model         string
	Year          int
	Length        float64
	Price         float64
	BoatCondition string
	Location      string
	Type          string
	Images        []ImageUpload
}

// CreateBoat submits a new boat ad as multipart form data.
func (c *Client) CreateBoat(ctx context.Context, req NewBoatRequest) (*Boat, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("marketplace request error: client is nil")
	}
	if strings.TrimSpace(c.baseURL) == "" {
		return nil, fmt.Errorf("marketplace config error: base_url is empty")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"user_id":        strconv.FormatInt(req.UserID, 10),
		"title":          req.Title,
		"description":    req.Description,
		"brand":          req.Brand,
		"model":          req.Model,
		"year":           strconv.Itoa(req.Year),
		"length":         strconv.FormatFloat(req.Length, 'f', -1, 64),
		"price":          strconv.FormatFloat(req.Price, 'f', -1, 64),
		"boat_condition": req.BoatCondition,
		"location":       req.Location,
		"type":           req.Type,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("marketplace request error: %w", err)
		}
	}

	for _, img := range req.Images {
		part, err := w.CreateFormFile("images[]", img.Name)
		if err != nil {
			return nil, fmt.Errorf("marketplace request error: %w", err)
		}
		if _, err := io.Copy(part, img.Reader); err != nil {
			return nil, fmt.Errorf("marketplace request error: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("marketplace request error: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/boats", &buf)
	if err != nil {
		return nil, fmt.Errorf("marketplace request error: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")
	if c.ua != "" {
		httpReq.Header.Set("User-Agent", c.ua)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	var out Boat
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
