package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dubaiboating/boating-app/internal/config"
	"github.com/dubaiboating/boating-app/internal/domain/ads"
	"github.com/dubaiboating/boating-app/internal/domain/auth"
	"github.com/dubaiboating/boating-app/internal/domain/boat"
	"github.com/dubaiboating/boating-app/internal/domain/booking"
	"github.com/dubaiboating/boating-app/internal/domain/listing"
	"github.com/dubaiboating/boating-app/internal/domain/profile"
	"github.com/dubaiboating/boating-app/internal/pkg/database"
	"github.com/dubaiboating/boating-app/internal/pkg/logger"
	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/session"
)

type app struct {
	cfg      *config.Config
	api      *marketapi.Client
	sessions *session.Provider
	auth     *auth.Service
	boats    *boat.Service
	listings *listing.Service
	profile  *profile.Service
	ads      *ads.Service
}

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient)
	} else {
		store = session.NewMemoryStore()
	}

	sessions := session.NewProvider(store, redisClient)
	defer sessions.Close()

	api := marketapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, cfg.UserAgent)

	a := &app{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		auth:     auth.NewService(api, sessions),
		boats:    boat.NewService(api),
		listings: listing.NewService(api),
		profile:  profile.NewService(api, sessions),
		ads:      ads.NewService(api, sessions),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: boatingcli <command> [flags]

Commands:
  login           sign in and cache the session user
  signup          create a new account
  logout          clear the session on every open view
  boats           browse boats for sale or rent
  boat            show one boat with owner and rates
  listings        browse marina/tour/water-sport listings
  book            submit a booking request for a rental boat
  my-ads          list your own boat ads
  place-ad        place a new rental boat ad
  profile         show your account record
  set-phone       add or update your phone number
  change-password rotate your password`)
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "signup":
		return a.signup(ctx, args)
	case "logout":
		return a.auth.SignOut(ctx)
	case "boats":
		return a.browseBoats(ctx, args)
	case "boat":
		return a.boatDetails(ctx, args)
	case "listings":
		return a.browseListings(ctx, args)
	case "book":
		return a.book(ctx, args)
	case "my-ads":
		return a.myAds(ctx)
	case "place-ad":
		return a.placeAd(ctx, args)
	case "profile":
		return a.showProfile(ctx)
	case "set-phone":
		return a.setPhone(ctx, args)
	case "change-password":
		return a.changePassword(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := a.auth.SignIn(ctx, auth.SignInRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Welcome back, %s (user %d)\n", user.Username, user.UserID)
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	_, err := a.auth.SignUp(ctx, marketapi.SignUpRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created successfully! Please login.")
	return nil
}

func (a *app) browseBoats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("boats", flag.ExitOnError)
	boatType := fs.String("type", "rental", "sale or rental")
	city := fs.String("city", "", "city filter")
	category := fs.String("category", "", "category filter")
	minPrice := fs.Float64("min-price", 0, "minimum price")
	maxPrice := fs.Float64("max-price", 0, "maximum price")
	page := fs.Int("page", 1, "result page")
	perPage := fs.Int("per-page", 20, "results per page")
	fs.Parse(args)

	filters := boat.Filters{
		City:     *city,
		Category: *category,
		MinPrice: *minPrice,
		MaxPrice: *maxPrice,
		Page:     *page,
		PerPage:  *perPage,
	}

	var (
		boats []marketapi.Boat
		err   error
	)
	if *boatType == "sale" {
		boats, err = a.boats.ForSale(ctx, filters)
	} else {
		boats, err = a.boats.Rentals(ctx, filters)
	}
	if err != nil {
		return err
	}

	for _, b := range boats {
		fmt.Printf("#%d  %-40s  %s AED  %s\n", b.ID, b.Title, b.Price, b.Location)
	}
	fmt.Printf("%d boats\n", len(boats))
	return nil
}

func (a *app) boatDetails(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: boat <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid boat id %q", args[0])
	}

	d, err := a.boats.Details(ctx, id)
	if err != nil {
		return err
	}

	b := d.Boat
	fmt.Printf("%s\n%s, %s %d, %.0f ft, %s\n", b.Title, b.Location, b.Brand, b.Year, b.Length, b.BoatCondition)
	fmt.Printf("Rates: %.2f AED/hour, %.2f AED/day\n", d.HourlyRate, d.DailyRate)
	if d.Owner != nil {
		fmt.Printf("Owner: %s (member since %s)\n", ownerName(d.Owner), d.Owner.CreatedAt)
	}
	if b.Description != "" {
		fmt.Println()
		fmt.Println(b.Description)
	}
	return nil
}

func ownerName(u *marketapi.User) string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Owner"
}

func (a *app) browseListings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("listings", flag.ExitOnError)
	category := fs.String("category", "", "Marina, Scuba, WaterSport, FishingTour or BoatTour")
	limit := fs.Int("limit", 0, "maximum results")
	fs.Parse(args)

	if *category == "" {
		counts, err := a.listings.Counts(ctx)
		if err != nil {
			return err
		}
		for _, cat := range listing.Categories() {
			fmt.Printf("%-12s %d\n", cat, counts[cat])
		}
		return nil
	}

	items, err := a.listings.ByCategory(ctx, listing.Category(*category), *limit)
	if err != nil {
		return err
	}
	for _, l := range items {
		fmt.Printf("#%d  %-40s  %s AED  %s\n", l.ID, l.Title, l.Price, l.Location)
	}
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	boatID := fs.Int64("boat", 0, "boat id")
	start := fs.String("start", "", "hourly: start time (HH:MM, half-hour slots)")
	hours := fs.Int("hours", 1, "hourly: rental duration")
	from := fs.Int("from", 0, "daily: day of month the rental starts")
	to := fs.Int("to", 0, "daily: day of month the rental ends")
	fs.Parse(args)

	if *boatID == 0 {
		return fmt.Errorf("usage: book -boat <id> (-start HH:MM -hours N | -from D -to D)")
	}

	d, err := a.boats.Details(ctx, *boatID)
	if err != nil {
		return err
	}

	form := booking.NewForm(d.HourlyRate)
	if *start != "" {
		startTime, err := booking.ParseTimeOfDay(*start)
		if err != nil {
			return err
		}
		if err := form.SetHourly(startTime, *hours); err != nil {
			return err
		}
	}
	if *from != 0 {
		if err := form.SetDateFrom(*from); err != nil {
			return err
		}
	}
	if *to != 0 {
		if err := form.SetDateTo(*to); err != nil {
			return err
		}
	}

	if form.HourlyActive() {
		fmt.Printf("Return on same day: %s - %s, %d hour(s)\n", *start, form.EndTime(), *hours)
	}
	fmt.Printf("Total: %.2f AED\n", form.TotalPrice())

	orch := booking.NewOrchestrator(*boatID, form, a.sessions, a.api.CreateBooking)
	orch.SetReferenceMonth(booking.ReferenceMonth{
		Year:  a.cfg.BookingRefYear,
		Month: time.Month(a.cfg.BookingRefMonth),
	})

	confirmation, err := orch.BookNow(ctx)
	if err != nil {
		return err
	}
	fmt.Println(confirmation.Message)
	return nil
}

func (a *app) myAds(ctx context.Context) error {
	boats, err := a.ads.MyAds(ctx)
	if err != nil {
		return err
	}
	if len(boats) == 0 {
		fmt.Println("You have no ads yet.")
		return nil
	}
	for _, b := range boats {
		fmt.Printf("#%d  %-40s  %s AED  %s  posted %s\n", b.ID, b.Title, b.Price, b.Type, b.CreatedAt)
	}
	return nil
}

func (a *app) placeAd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("place-ad", flag.ExitOnError)
	title := fs.String("title", "", "ad title")
	description := fs.String("description", "", "ad description")
	brand := fs.String("brand", "", "boat brand")
	model := fs.String("model", "", "boat model")
	year := fs.Int("year", 0, "build year")
	length := fs.Float64("length", 0, "length in feet")
	price := fs.Float64("price", 0, "hourly rental price")
	condition := fs.String("condition", "used", "new or used")
	location := fs.String("location", "Dubai", "boat location")
	images := fs.String("images", "", "comma-separated image file paths")
	fs.Parse(args)

	req := ads.PlaceAdRequest{
		Title:         *title,
		Description:   *description,
		Brand:         *brand,
		Model:         *model,
		Year:          *year,
		Length:        *length,
		Price:         *price,
		BoatCondition: *condition,
		Location:      *location,
	}

	var openFiles []*os.File
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()

	if *images != "" {
		for _, path := range strings.Split(*images, ",") {
			path = strings.TrimSpace(path)
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open image %s: %w", path, err)
			}
			openFiles = append(openFiles, f)
			req.Images = append(req.Images, marketapi.ImageUpload{
				Name:   filepath.Base(path),
				Reader: f,
			})
		}
	}

	created, err := a.ads.PlaceAd(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Your ad has been placed successfully! (#%d)\n", created.ID)
	return nil
}

func (a *app) showProfile(ctx context.Context) error {
	user, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("User #%d\nUsername: %s\nEmail:    %s\nPhone:    %s\n", user.UserID, user.Username, user.Email, user.Phone)
	return nil
}

func (a *app) setPhone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-phone", flag.ExitOnError)
	phone := fs.String("phone", "", "UAE phone number")
	fs.Parse(args)

	if err := a.profile.SetPhone(ctx, *phone); err != nil {
		return err
	}
	fmt.Println("Phone number saved.")
	return nil
}

func (a *app) changePassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("change-password", flag.ExitOnError)
	oldPwd := fs.String("old", "", "current password")
	newPwd := fs.String("new", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	fs.Parse(args)

	message, err := a.profile.ChangePassword(ctx, profile.PasswordChange{
		OldPassword:     *oldPwd,
		NewPassword:     *newPwd,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}
