package lead

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrLeadNotFound = errors.New("lead not found")
)
