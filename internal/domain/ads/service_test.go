package ads_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dubaiboating/boating-app/internal/domain/ads"
	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/pkg/validator"
	"github.com/dubaiboating/boating-app/internal/session"
)

type fakeAPI struct {
	page        *marketapi.BoatPage
	listCalls   int
	createCalls int
	lastCreate  marketapi.NewBoatRequest
}

func (f *fakeAPI) ListBoats(ctx context.Context, q marketapi.BoatQuery) (*marketapi.BoatPage, error) {
	f.listCalls++
	if f.page == nil {
		return &marketapi.BoatPage{}, nil
	}
	return f.page, nil
}

func (f *fakeAPI) CreateBoat(ctx context.Context, req marketapi.NewBoatRequest) (*marketapi.Boat, error) {
	f.createCalls++
	f.lastCreate = req
	return &marketapi.Boat{ID: 99, UserID: req.UserID, Title: req.Title, Type: req.Type}, nil
}

func newService(t *testing.T, api *fakeAPI, u *session.User) *ads.Service {
	t.Helper()
	sessions := session.NewProvider(session.NewMemoryStore(), nil)
	t.Cleanup(sessions.Close)
	if u != nil {
		if err := sessions.SignIn(context.Background(), u); err != nil {
			t.Fatalf("SignIn: %v", err)
		}
	}
	return ads.NewService(api, sessions)
}

func validAd() ads.PlaceAdRequest {
	return ads.PlaceAdRequest{
		Title:         "Sunset cruiser",
		Description:   "A comfortable 40ft cruiser for evening trips.",
		Brand:         "Azimut",
		Model:         "40",
		Year:          2019,
		Length:        40,
		Price:         450,
		BoatCondition: "used",
	}
}

func TestMyAdsRequiresSession(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api, nil)

	if _, err := svc.MyAds(context.Background()); !errors.Is(err, ads.ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
	if api.listCalls != 0 {
		t.Fatalf("signed-out request must not hit the API, got %d calls", api.listCalls)
	}
}

func TestMyAdsFiltersByOwner(t *testing.T) {
	api := &fakeAPI{page: &marketapi.BoatPage{Data: []marketapi.Boat{
		{ID: 1, UserID: 42, Title: "mine"},
		{ID: 2, UserID: 7, Title: "theirs"},
		{ID: 3, UserID: 42, Title: "also mine"},
	}}}
	svc := newService(t, api, &session.User{UserID: 42})

	mine, err := svc.MyAds(context.Background())
	if err != nil {
		t.Fatalf("MyAds: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 owned boats, got %d", len(mine))
	}
	for _, b := range mine {
		if b.UserID != 42 {
			t.Fatalf("foreign boat leaked through: %+v", b)
		}
	}
}

func TestPlaceAdDefaults(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api, &session.User{UserID: 42})

	created, err := svc.PlaceAd(context.Background(), validAd())
	if err != nil {
		t.Fatalf("PlaceAd: %v", err)
	}
	if created.ID != 99 {
		t.Fatalf("unexpected created boat: %+v", created)
	}

	req := api.lastCreate
	if req.UserID != 42 {
		t.Fatalf("owner should come from the session, got %d", req.UserID)
	}
	if req.Type != "rental" {
		t.Fatalf("ads are rental listings, got type %q", req.Type)
	}
	if req.Location != "Dubai" {
		t.Fatalf("empty location should default to Dubai, got %q", req.Location)
	}
}

func TestPlaceAdValidates(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api, &session.User{UserID: 42})

	bad := validAd()
	bad.Title = "ab"
	bad.BoatCondition = "sunk"

	_, err := svc.PlaceAd(context.Background(), bad)
	var valErr *validator.Error
	if !errors.As(err, &valErr) {
		t.Fatalf("expected validator.Error, got %v", err)
	}
	if api.createCalls != 0 {
		t.Fatalf("invalid ad must not reach the network, got %d calls", api.createCalls)
	}
}

func TestPlaceAdWithImages(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(t, api, &session.User{UserID: 42})

	ad := validAd()
	ad.Images = []marketapi.ImageUpload{
		{Name: "bow.jpg", Reader: strings.NewReader("jpeg-bytes")},
	}

	if _, err := svc.PlaceAd(context.Background(), ad); err != nil {
		t.Fatalf("PlaceAd: %v", err)
	}
	if len(api.lastCreate.Images) != 1 || api.lastCreate.Images[0].Name != "bow.jpg" {
		t.Fatalf("images should pass through, got %+v", api.lastCreate.Images)
	}
}
