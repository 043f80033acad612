package storage

import "errors"

var (
	ErrDisabled    = errors.New("storage is disabled")
	ErrInvalidPage = errors.New("limit and offset must be non-negative")
	ErrUnknownType = errors.New("unknown storage type")
)
