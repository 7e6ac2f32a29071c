package removal

import "errors"

var (
	ErrNoFile           = errors.New("no file uploaded")
	ErrNoFileSelected   = errors.New("no file selected")
	ErrFileTooLarge     = errors.New("file too large")
	ErrEmptyFile        = errors.New("uploaded file is empty")
	ErrInvalidForm      = errors.New("invalid request format")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
