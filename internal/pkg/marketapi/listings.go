package marketapi

import (
	"context"
	"encoding/json"
	"net/http"
)

// Listing is a non-boat bookable item: marina berth, scuba trip,
// water sport, fishing or boat tour.
type Listing struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Price       json.Number `json:"price"`
	Location    string      `json:"location"`
	Image       string      `json:"image,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

type listingsResponse struct {
	Listings []Listing `json:"listings"`
}

// ListListings fetches the full listings collection. The endpoint has
// no server-side filters; category filtering happens in the listing
// service.
func (c *Client) ListListings(ctx context.Context) ([]Listing, error) {
	var out listingsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/listings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}
