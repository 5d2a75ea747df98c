package engine

import (
	"errors"

	"github.com/okian/eventfacets/internal/domain/facet"
	"github.com/okian/eventfacets/internal/domain/season"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrFetch    = errors.New("season fetch failed")
	ErrEmbedded = errors.New("embedded season data invalid")

	ErrUnknownSeason = season.ErrUnknownSeason
	ErrUnknownFacet  = facet.ErrUnknownFacet
	ErrUnknownValue  = facet.ErrUnknownValue
)
