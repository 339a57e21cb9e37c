package ads

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/pkg/validator"
	"github.com/dubaiboating/boating-app/internal/session"
)

var ErrNotSignedIn = errors.New("please log in to manage your ads")

// API is the slice of the marketplace client ad management needs.
type API interface {
	ListBoats(ctx context.Context, q marketapi.BoatQuery) (*marketapi.BoatPage, error)
	CreateBoat(ctx context.Context, req marketapi.NewBoatRequest) (*marketapi.Boat, error)
}

// Service handles the my-ads screen and placing new rental ads.
type Service struct {
	api      API
	sessions *session.Provider
}

// NewService creates ads service
func NewService(api API, sessions *session.Provider) *Service {
	return &Service{api: api, sessions: sessions}
}

// MyAds returns the signed-in user's boats. The boats endpoint has no
// owner filter, so ownership is filtered here.
func (s *Service) MyAds(ctx context.Context) ([]marketapi.Boat, error) {
	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}

	page, err := s.api.ListBoats(ctx, marketapi.BoatQuery{})
	if err != nil {
		return nil, err
	}

	var mine []marketapi.Boat
	for _, b := range page.Data {
		if b.UserID == current.UserID {
			mine = append(mine, b)
		}
	}
	return mine, nil
}

// PlaceAdRequest is a new rental-boat ad. Images ride separately from
// the validated fields.
type PlaceAdRequest struct {
	Title         string  `json:"title" validate:"required,min=3,max=120"`
	Description   string  `json:"description" validate:"required,min=10"`
	Brand         string  `json:"brand" validate:"required"`
	Model         string  `json:"model" validate:"required"`
	Year          int     `json:"year" validate:"required,gte=1950,lte=2030"`
	Length        float64 `json:"length" validate:"required,gt=0"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	BoatCondition string  `json:"boat_condition" validate:"required,boat_condition"`
	Location      string  `json:"location"`

	Images []marketapi.ImageUpload `json:"-"`
}

// PlaceAd validates and submits a rental ad for the signed-in user.
func (s *Service) PlaceAd(ctx context.Context, req PlaceAdRequest) (*marketapi.Boat, error) {
	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}

	if err := validator.Check(req); err != nil {
		return nil, err
	}

	location := req.Location
	if location == "" {
		location = "Dubai"
	}

	created, err := s.api.CreateBoat(ctx, marketapi.NewBoatRequest{
		UserID:        current.UserID,
		Title:         req.Title,
		Description:   req.Description,
		Brand:         req.Brand,
		Model:         req.Model,
		Year:          req.Year,
		Length:        req.Length,
		Price:         req.Price,
		BoatCondition: req.BoatCondition,
		Location:      location,
		Type:          "rental",
		Images:        req.Images,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", current.UserID).Int64("boat_id", created.ID).Msg("Ad placed")
	return created, nil
}
