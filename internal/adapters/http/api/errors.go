package api

import "errors"

var (
	ErrBadRequest = errors.New("bad request")
	ErrServe      = errors.New("http serve failed")
)
