package profile

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/pkg/validator"
	"github.com/dubaiboating/boating-app/internal/session"
)

// API is the slice of the marketplace client the profile screens need.
type API interface {
	GetUser(ctx context.Context, id int64) (*marketapi.User, error)
	UpdateUser(ctx context.Context, req marketapi.UpdateUserRequest) (*marketapi.User, error)
	UpdatePassword(ctx context.Context, req marketapi.ChangePasswordRequest) (*marketapi.PasswordResult, error)
	AddPhone(ctx context.Context, userID int64, phone string) error
	UpdatePhone(ctx context.Context, userID int64, phone string) error
}

// Service handles the my-profile screens: account fields, password
// and phone number. Edits that change cached fields refresh the
// session copy the way the original app rewrote its stored user.
type Service struct {
	api      API
	sessions *session.Provider
}

// NewService creates profile service
func NewService(api API, sessions *session.Provider) *Service {
	return &Service{api: api, sessions: sessions}
}

// Get fetches the signed-in user's full record.
func (s *Service) Get(ctx context.Context) (*marketapi.User, error) {
	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.api.GetUser(ctx, current.UserID)
}

// UpdateRequest carries the editable account fields.
type UpdateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
}

// Update saves account fields and refreshes the session cache.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*marketapi.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateUser(ctx, marketapi.UpdateUserRequest{
		UserID:   current.UserID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return nil, err
	}

	current.Username = req.Username
	current.Email = req.Email
	if err := s.sessions.Refresh(ctx, current); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh cached session user")
	}

	return updated, nil
}

// PasswordChange carries the password rotation fields.
type PasswordChange struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ChangePassword rotates the password. A mismatched confirmation
// never reaches the network.
func (s *Service) ChangePassword(ctx context.Context, req PasswordChange) (string, error) {
	if err := validator.Check(req); err != nil {
		return "", err
	}
	if req.NewPassword != req.ConfirmPassword {
		return "", ErrPasswordMismatch
	}

	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return "", err
	}

	result, err := s.api.UpdatePassword(ctx, marketapi.ChangePasswordRequest{
		UserID:      current.UserID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return "", err
	}

	message := result.Message
	if message == "" {
		message = "Password updated successfully"
	}
	return message, nil
}

// SetPhone adds or replaces the account phone number and refreshes
// the session cache. Numbers are normalized to the UAE +971 format
// the marketplace expects.
func (s *Service) SetPhone(ctx context.Context, phone string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	current, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if current.Phone == "" {
		err = s.api.AddPhone(ctx, current.UserID, normalized)
	} else {
		err = s.api.UpdatePhone(ctx, current.UserID, normalized)
	}
	if err != nil {
		return err
	}

	current.Phone = normalized
	if err := s.sessions.Refresh(ctx, current); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh cached session user")
	}
	return nil
}

// NormalizePhone reduces the input to digits and formats it as
// +971 XXXXXXXXX. A leading 971 country code (with or without the
// plus) is accepted; anything that does not leave nine subscriber
// digits is rejected.
func NormalizePhone(input string) (string, error) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := digits.String()
	number = strings.TrimPrefix(number, "971")
	number = strings.TrimPrefix(number, "0")

	if len(number) != 9 {
		return "", ErrInvalidPhone
	}
	return "+971 " + number, nil
}
