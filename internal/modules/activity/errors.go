package activity

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrDealNotFound = errors.New("deal not found")
)
