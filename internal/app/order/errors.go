package order

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrNoOfferAvailable  = errors.New("no_offer_available")
	ErrOrderNotFound     = errors.New("order_not_found")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrAlreadySettled    = errors.New("already_settled")
	ErrNotConfirmed      = errors.New("order_not_confirmed")
)
