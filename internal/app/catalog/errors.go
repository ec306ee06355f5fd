package catalog

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrClientNotFound  = errors.New("client_not_found")
	ErrProductNotFound = errors.New("product_not_found")
)
