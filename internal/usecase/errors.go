package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrMalformedRecord     = errors.New("malformed record")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrConnectivity        = errors.New("storage connectivity")
	ErrSourceUnavailable   = errors.New("source unavailable")
)
