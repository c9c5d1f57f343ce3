package domain

import "errors"

var (
	// ErrNotFound marks a cart, line, product or promo code that does not
	// exist or is not visible to the caller's tenant.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest marks deterministic business-rule rejections.
	ErrBadRequest = errors.New("bad request")
)

var ErrTenantIDEmpty = errors.New("tenantID is empty")
