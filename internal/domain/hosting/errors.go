package hosting

import "errors"

var (
	ErrEmptyReference   = errors.New("empty image reference")
	ErrInvalidImageData = errors.New("image reference is neither a hosted URL nor inline image data")
)
