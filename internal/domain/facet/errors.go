package facet

import "errors"

// Sentinel kinds for facet errors.
var (
	ErrUnknownFacet = errors.New("unknown facet")
	ErrUnknownValue = errors.New("unknown facet value")
)
