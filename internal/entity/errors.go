package entity

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("record already exists")
	ErrInvalidReference    = errors.New("referenced record does not exist")
	ErrStagesNotConfigured = errors.New("pipeline stages are not configured")
)
