package project

import "errors"

var (
	ErrMissingID          = errors.New("project id is required")
	ErrMissingSourceImage = errors.New("project source image is required")
	ErrInvalidVisibility  = errors.New("visibility must be private or public")
	ErrProjectNotFound    = errors.New("project not found")
	ErrSourceUnresolved   = errors.New("source image could not be resolved to a hosted URL")
	ErrSaveInFlight       = errors.New("a save for this project is already in flight")
	ErrRenderUnavailable  = errors.New("render provider is not configured")
)
