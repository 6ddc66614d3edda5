package domain

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrInvalidRecommendation = errors.New("invalid recommendation")
	ErrExternalService       = errors.New("external service failure")
	ErrNoAdvisor             = errors.New("advisor is not configured")
)
