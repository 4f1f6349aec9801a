package quote

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrDealNotFound  = errors.New("deal not found")
	ErrItemNotFound  = errors.New("quote item not found")
	ErrEmptyQuote    = errors.New("quotation has no items")
	ErrItemNotInDeal = errors.New("quote item does not belong to deal")
)
