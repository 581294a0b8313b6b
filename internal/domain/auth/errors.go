package auth

import "errors"

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrForbiddenRole     = errors.New("role is not allowed to perform this action")
	ErrMissingUserClaims = errors.New("token has no user_id claim")
)
