package listing

import (
	"context"

	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
)

// Category is a listing type as the API spells it.
type Category string

const (
	CategoryMarina      Category = "Marina"
	CategoryScuba       Category = "Scuba"
	CategoryWaterSport  Category = "WaterSport"
	CategoryFishingTour Category = "FishingTour"
	CategoryBoatTour    Category = "BoatTour"
)

// Categories lists every known listing category.
func Categories() []Category {
	return []Category{
		CategoryMarina,
		CategoryScuba,
		CategoryWaterSport,
		CategoryFishingTour,
		CategoryBoatTour,
	}
}

// API is the slice of the marketplace client the listing screens need.
type API interface {
	ListListings(ctx context.Context) ([]marketapi.Listing, error)
}

// Service drives the listings rails and category pages. The listings
// endpoint returns the whole collection, so filtering is local.
type Service struct {
	api API
}

// NewService creates listing service
func NewService(api API) *Service {
	return &Service{api: api}
}

// All returns every listing.
func (s *Service) All(ctx context.Context) ([]marketapi.Listing, error) {
	return s.api.ListListings(ctx)
}

// ByCategory returns listings of one category, up to limit when
// limit > 0.
func (s *Service) ByCategory(ctx context.Context, cat Category, limit int) ([]marketapi.Listing, error) {
	all, err := s.api.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	var matched []marketapi.Listing
	for _, l := range all {
		if l.Type != string(cat) {
			continue
		}
		matched = append(matched, l)
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

// Counts returns the number of listings per category, for the popular
// categories rail.
func (s *Service) Counts(ctx context.Context) (map[Category]int, error) {
	all, err := s.api.ListListings(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[Category]int)
	for _, l := range all {
		counts[Category(l.Type)]++
	}
	return counts, nil
}
