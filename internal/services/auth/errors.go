package auth

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailExists             = errors.New("user with that email already exists")
	ErrUsernameExists          = errors.New("user with that username already exists")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrInvalidToken            = errors.New("invalid or expired token")
)
