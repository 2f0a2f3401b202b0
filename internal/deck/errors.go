package deck

import "errors"

var (
	// ErrMalformed indicates a persisted deck document that cannot be loaded.
	ErrMalformed = errors.New("malformed deck document")
	// ErrInvalidIndex indicates a card index outside the deck.
	ErrInvalidIndex = errors.New("card index out of range")
)
