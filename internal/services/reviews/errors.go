package reviews

import "errors"

var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrReviewExists    = errors.New("review for that title already exists")
	ErrCommentNotFound = errors.New("comment not found")
)
