package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/pkg/validator"
	"github.com/dubaiboating/boating-app/internal/session"
)

// API is the slice of the marketplace client auth needs.
type API interface {
	Login(ctx context.Context, email, password string) (*marketapi.User, error)
	CreateUser(ctx context.Context, req marketapi.SignUpRequest) (*marketapi.User, error)
}

// Service handles sign-in, sign-up and sign-out against the
// marketplace API and keeps the session provider in sync.
type Service struct {
	api      API
	sessions *session.Provider
}

// NewService creates auth service
func NewService(api API, sessions *session.Provider) *Service {
	return &Service{api: api, sessions: sessions}
}

// SignInRequest carries login credentials.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn exchanges credentials for a user, stores it as the session
// identity and notifies subscribers.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*session.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.api.Login(ctx, req.Email, req.Password)
	if err != nil {
		var apiErr *marketapi.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusUnprocessableEntity) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	sessionUser := &session.User{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
	}
	if err := s.sessions.SignIn(ctx, sessionUser); err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", user.UserID).Msg("User signed in")
	return sessionUser, nil
}

// SignUp creates a new account. Field errors from the API come back
// as *validator.Error so callers can show them next to the inputs.
func (s *Service) SignUp(ctx context.Context, req marketapi.SignUpRequest) (*marketapi.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.api.CreateUser(ctx, req)
	if err != nil {
		var apiErr *marketapi.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			return nil, &validator.Error{Fields: apiErr.Fields}
		}
		return nil, err
	}

	log.Info().Str("email", req.Email).Msg("Account created")
	return user, nil
}

// SignOut clears the session and broadcasts the logout to every open
// view.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.sessions.SignOut(ctx); err != nil {
		return err
	}
	log.Info().Msg("User signed out")
	return nil
}
