package boat

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
)

// API is the slice of the marketplace client the boat screens need.
type API interface {
	ListBoats(ctx context.Context, q marketapi.BoatQuery) (*marketapi.BoatPage, error)
	GetBoat(ctx context.Context, id int64) (*marketapi.Boat, error)
	GetUser(ctx context.Context, id int64) (*marketapi.User, error)
}

// Service drives the boat browse/search and detail screens.
type Service struct {
	api API
}

// NewService creates boat service
func NewService(api API) *Service {
	return &Service{api: api}
}

// Filters is the user-facing search filter set.
type Filters struct {
	City       string
	Category   string
	SellerType string
	Warranty   string
	MinPrice   float64
	MaxPrice   float64
	Page       int
	PerPage    int
}

func (f Filters) query(boatType string) marketapi.BoatQuery {
	return marketapi.BoatQuery{
		Type:       boatType,
		City:       f.City,
		Category:   f.Category,
		SellerType: f.SellerType,
		Warranty:   f.Warranty,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		Page:       f.Page,
		PerPage:    f.PerPage,
	}
}

// ForSale returns boats listed for sale. The API is expected to
// filter by type already; the extra check guards against mixed pages.
func (s *Service) ForSale(ctx context.Context, f Filters) ([]marketapi.Boat, error) {
	return s.browse(ctx, f.query("sale"))
}

// Rentals returns boats available for rent.
func (s *Service) Rentals(ctx context.Context, f Filters) ([]marketapi.Boat, error) {
	return s.browse(ctx, f.query("rental"))
}

func (s *Service) browse(ctx context.Context, q marketapi.BoatQuery) ([]marketapi.Boat, error) {
	page, err := s.api.ListBoats(ctx, q)
	if err != nil {
		return nil, err
	}

	boats := make([]marketapi.Boat, 0, len(page.Data))
	for _, b := range page.Data {
		if q.Type != "" && b.Type != q.Type {
			continue
		}
		boats = append(boats, b)
	}
	return boats, nil
}

// Details is everything the rental detail screen shows: the boat, its
// owner (when resolvable) and the derived rental rates.
type Details struct {
	Boat       marketapi.Boat
	Owner      *marketapi.User
	HourlyRate float64
	DailyRate  float64
}

// Details fetches a boat and its owner. A missing owner record does
// not fail the screen; the sidebar just shows no profile.
func (s *Service) Details(ctx context.Context, id int64) (*Details, error) {
	b, err := s.api.GetBoat(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Boat:       *b,
		HourlyRate: b.HourlyRate(),
		DailyRate:  b.HourlyRate() * 24,
	}

	if b.UserID != 0 {
		owner, err := s.api.GetUser(ctx, b.UserID)
		if err != nil {
			log.Warn().Err(err).Int64("boat_id", id).Int64("owner_id", b.UserID).Msg("Failed to fetch boat owner")
		} else {
			d.Owner = owner
		}
	}

	return d, nil
}
