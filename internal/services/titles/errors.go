package titles

import "errors"

var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrUnknownCategory = errors.New("category with that slug does not exist")
	ErrUnknownGenre    = errors.New("genre with that slug does not exist")
)
