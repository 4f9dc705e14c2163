package apperror

import "errors"

var (
	ErrInvalidTarget   = errors.New("cell can't be targeted")
	ErrMatchOver       = errors.New("match is already over")
	ErrSessionNotFound = errors.New("session not found")
)
