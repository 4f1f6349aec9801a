package machine

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrDealNotFound    = errors.New("deal not found")
	ErrMachineNotFound = errors.New("machine not found")
)
