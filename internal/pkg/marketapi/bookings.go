package marketapi

import (
	"context"
	"net/http"
)

// BookingRequest is the wire shape for POST /bookings. Exactly one of
// the hourly pair (start_time/end_time) or the daily pair
// (booking_date/end_date) is set; the other marshals to null.
type BookingRequest struct {
	BoatID         int64   `json:"boat_id" validate:"required"`
	UserID         int64   `json:"user_id" validate:"required"`
	BookingDate    *string `json:"booking_date"`
	EndDate        *string `json:"end_date"`
	StartTime      *string `json:"start_time" validate:"omitempty,halfhour"`
	EndTime        *string `json:"end_time" validate:"omitempty,halfhour"`
	TotalPrice     float64 `json:"total_price" validate:"gte=0"`
	Status         string  `json:"status" validate:"required,booking_status"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// BookingReceipt is the answer to a booking submission; only the
// success signal and optional message are consumed.
type BookingReceipt struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// CreateBooking submits one booking request.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*BookingReceipt, error) {
	var out BookingReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/bookings", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
