package blog

import "errors"

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrMissingField = errors.New("title and content are required")
)
