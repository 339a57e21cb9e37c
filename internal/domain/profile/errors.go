package profile

import "errors"

var (
	ErrPasswordMismatch = errors.New("new passwords do not match")
	ErrInvalidPhone     = errors.New("phone must be a 9-digit UAE number")
)
