package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrInvalidSelection covers impossible product configurations: unknown
	// variant or accessory, non-positive quantity, engraving requested on a
	// product that does not offer it.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrQuantityCapped is returned when incrementing a switch line that
	// carries an installation charge past 3 units. Installation at that scale
	// is quoted after a site visit, not flat-priced.
	ErrQuantityCapped = errors.New("site visit required for more than 3 switches with installation")

	ErrMissingFields = errors.New("missing required contact fields")
	ErrEmptyCart     = errors.New("cart is empty")
)
