package strategies

import "errors"

var (
	ErrEmptyInput     = errors.New("empty input")
	ErrDecodeImage    = errors.New("failed to decode image")
	ErrImageTooLarge  = errors.New("image dimensions exceed the pixel limit")
	ErrAPIKeyMissing  = errors.New("external API key is not configured")
	ErrRemoteAPI      = errors.New("external API request failed")
	ErrRemoteResponse = errors.New("unexpected external API response")
)
