package client

import "errors"

var (
	ErrInvalidID       = errors.New("file id must be positive")
	ErrInvalidEndpoint = errors.New("endpoint must be an absolute http(s) URL")
)
