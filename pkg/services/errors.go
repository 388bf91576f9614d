package services

import "errors"

var (
	ErrInvalidPath       = errors.New("invalid field path")
	ErrUnsupportedLocale = errors.New("unsupported locale")
	ErrUnknownPage       = errors.New("unknown page")
	ErrUnsupportedFormat = errors.New("unsupported format")
)
