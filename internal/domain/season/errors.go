package season

import "errors"

// Sentinel kinds for season errors.
var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrNotLoading    = errors.New("season is not loading")
)
