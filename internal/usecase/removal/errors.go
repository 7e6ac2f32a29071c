package removal

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrImageTooLarge    = errors.New("image dimensions too large")
	ErrAPIKeyMissing    = errors.New("API key not configured")
	ErrProcessingFailed = errors.New("processing failed")
	ErrRemoteAPI        = errors.New("external API error")
	ErrNotImplemented   = errors.New("not implemented")
)
